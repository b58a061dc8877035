package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dowan1041/ocie-helper/internal/model"
)

// DiskStore keeps images in a local directory that the web server exposes
// at PublicBase. It is the default backend for single-host deployments.
type DiskStore struct {
	Dir        string
	PublicBase string
}

// NewDiskStore creates the image directory if needed.
func NewDiskStore(dir, publicBase string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, Prefix), 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &DiskStore{Dir: dir, PublicBase: publicBase}, nil
}

// UploadAndPublish writes the file privately, then makes it world-readable.
func (s *DiskStore) UploadAndPublish(_ context.Context, data []byte, key, _ string) (string, error) {
	if err := validKey(key); err != nil {
		return "", &model.StoreError{Op: "uploading image", Err: err}
	}

	path := filepath.Join(s.Dir, Prefix, key)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", &model.StoreError{Op: "uploading image", Err: err}
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return "", &model.StoreError{Op: "publishing image", Err: err}
	}

	return joinURL(s.PublicBase, Prefix+key), nil
}
