package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dowan1041/ocie-helper/internal/model"
)

func TestDiskStoreUploadAndPublish(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/images/")
	require.NoError(t, err)

	url, err := s.UploadAndPublish(context.Background(), []byte("img"), "1234.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/images/equipment/1234.jpg", url)

	path := filepath.Join(dir, "equipment", "1234.jpg")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestDiskStoreOverwritesSameKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/images")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.UploadAndPublish(ctx, []byte("old"), "0001.png", "image/png")
	require.NoError(t, err)
	_, err = s.UploadAndPublish(ctx, []byte("new"), "0001.png", "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "equipment", "0001.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDiskStoreRejectsPathKeys(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), "/images")
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.jpg", "a/b.jpg", `a\b.jpg`, ".hidden"} {
		_, err := s.UploadAndPublish(context.Background(), []byte("x"), key, "image/jpeg")
		var se *model.StoreError
		assert.True(t, errors.As(err, &se), "key %q: expected StoreError, got %v", key, err)
	}
}
