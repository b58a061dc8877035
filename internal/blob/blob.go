// Package blob stores equipment images and publishes them under stable
// public URLs.
package blob

import (
	"context"
	"fmt"
	"strings"
)

// Prefix is the namespace every equipment image is written under.
const Prefix = "equipment/"

// Store uploads an object and makes it publicly readable.
type Store interface {
	// UploadAndPublish writes data under Prefix+key, marks it public and
	// returns its public URL. Failures are *model.StoreError.
	UploadAndPublish(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// validKey rejects keys that would escape the equipment namespace.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

func joinURL(base, objectKey string) string {
	return strings.TrimRight(base, "/") + "/" + objectKey
}
