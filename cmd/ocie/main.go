package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dowan1041/ocie-helper/internal/blob"
	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/config"
	"github.com/dowan1041/ocie-helper/internal/db"
)

// app holds what every subcommand needs once the root command has run.
type app struct {
	configPath string
	dbPath     string
	logPath    string

	cfg      *config.Config
	closeLog func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ocie: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "ocie",
		Short:        "OCIE Helper equipment catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file (default: none, environment only)")
	flags.StringVarP(&a.dbPath, "db", "d", "", "SQLite database path (default: ocie.sqlite3)")
	flags.StringVarP(&a.logPath, "log", "l", "", "log file path (default: no file, stdout/stderr only)")

	cmd.AddCommand(
		newServeCmd(a),
		newImportCmd(a),
		newExportCmd(a),
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and configures
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, os.Getenv)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("log") {
		cfg.LogPath = a.logPath
	}
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	a.cfg = cfg

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	return nil
}

// openDatabase opens the catalog database and makes sure the schema exists.
func (a *app) openDatabase() (*sql.DB, error) {
	database, err := db.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info("database ready", "path", a.cfg.DBPath)
	return database, nil
}

// newBlobStore builds the configured image store. For the disk backend it
// also returns the directory to serve under /images/.
func newBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, string, error) {
	switch cfg.Backend {
	case config.BackendS3:
		s, err := blob.NewS3Store(ctx, cfg.S3, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		s, err := blob.NewDiskStore(cfg.Dir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Dir, nil
	}
}

// openCatalog wires the database and image store into a catalog service.
// The caller closes the returned database.
func (a *app) openCatalog(ctx context.Context) (*catalog.Service, string, error) {
	database, err := a.openDatabase()
	if err != nil {
		return nil, "", err
	}
	blobs, imageDir, err := newBlobStore(ctx, a.cfg.Blob)
	if err != nil {
		database.Close()
		return nil, "", fmt.Errorf("setting up image store: %w", err)
	}
	return &catalog.Service{DB: database, Blobs: blobs}, imageDir, nil
}
