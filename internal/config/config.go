// Package config loads server settings from defaults, an optional YAML
// file and OCIE_* environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings.
type Config struct {
	Addr          string     `yaml:"addr"`
	DBPath        string     `yaml:"db"`
	LogPath       string     `yaml:"log"`
	SitePasscode  string     `yaml:"site_passcode"`
	WritePasscode string     `yaml:"write_passcode"`
	Blob          BlobConfig `yaml:"blob"`
}

// BlobConfig selects and configures the image store.
type BlobConfig struct {
	// Backend is "disk" or "s3".
	Backend string `yaml:"backend"`
	// Dir is the image directory for the disk backend.
	Dir string `yaml:"dir"`
	// PublicBaseURL prefixes published object keys. Optional for s3.
	PublicBaseURL string   `yaml:"public_base_url"`
	S3            S3Config `yaml:"s3"`
}

// S3Config describes an S3-compatible bucket.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Blob backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Default returns development defaults.
func Default() *Config {
	return &Config{
		Addr:   ":8080",
		DBPath: "ocie.sqlite3",
		Blob: BlobConfig{
			Backend:       BackendDisk,
			Dir:           "images",
			PublicBaseURL: "/images",
			S3:            S3Config{Region: "us-east-1"},
		},
	}
}

// Load applies defaults, then the YAML file at path (if path is not empty),
// then the environment read through getenv, and validates the result.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	vars := []struct {
		key    string
		target *string
	}{
		{"OCIE_ADDR", &c.Addr},
		{"OCIE_DB", &c.DBPath},
		{"OCIE_LOG", &c.LogPath},
		{"OCIE_SITE_PASSCODE", &c.SitePasscode},
		{"OCIE_WRITE_PASSCODE", &c.WritePasscode},
		{"OCIE_BLOB_BACKEND", &c.Blob.Backend},
		{"OCIE_BLOB_DIR", &c.Blob.Dir},
		{"OCIE_PUBLIC_BASE_URL", &c.Blob.PublicBaseURL},
		{"OCIE_S3_BUCKET", &c.Blob.S3.Bucket},
		{"OCIE_S3_REGION", &c.Blob.S3.Region},
		{"OCIE_S3_ENDPOINT", &c.Blob.S3.Endpoint},
		{"OCIE_S3_ACCESS_KEY", &c.Blob.S3.AccessKey},
		{"OCIE_S3_SECRET_KEY", &c.Blob.S3.SecretKey},
	}
	for _, v := range vars {
		if val := getenv(v.key); val != "" {
			*v.target = val
		}
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Blob.Backend {
	case BackendDisk:
		if c.Blob.Dir == "" {
			return fmt.Errorf("blob.dir is required for the disk backend")
		}
	case BackendS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown blob backend %q (want %q or %q)", c.Blob.Backend, BackendDisk, BackendS3)
	}
	return nil
}

// LogValue keeps passcodes and credentials out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.String("db", c.DBPath),
		slog.String("blob_backend", c.Blob.Backend),
		slog.Bool("site_gate", c.SitePasscode != ""),
		slog.Bool("write_gate", c.WritePasscode != ""),
	)
}
