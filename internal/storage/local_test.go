package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	provider, err := NewLocalProvider(dir)
	require.NoError(t, err)
	return provider, dir
}

func TestLocalProvider_PutAndGetObject(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	bucket := "argo-data"
	key := "floats/2024/profiles.csv"
	content := []byte("float_id,latitude,longitude\nf1,15.0,65.0\n")

	require.NoError(t, provider.PutObject(context.Background(), bucket, key, bytes.NewReader(content)))

	data, err := os.ReadFile(filepath.Join(baseDir, bucket, key))
	require.NoError(t, err)
	assert.Equal(t, content, data)

	fetched, err := provider.GetObject(context.Background(), bucket, key)
	require.NoError(t, err)
	assert.Equal(t, content, fetched)
}

func TestLocalProvider_GetMissingObject(t *testing.T) {
	provider, _ := setupTestProvider(t)

	_, err := provider.GetObject(context.Background(), "argo-data", "missing.csv")
	assert.Error(t, err)
}

func TestLocalProvider_ListObjects(t *testing.T) {
	provider, _ := setupTestProvider(t)

	bucket := "argo-data"
	files := []string{"floats/a.csv", "floats/sub/b.csv", "other/c.csv"}
	for _, file := range files {
		require.NoError(t, provider.PutObject(context.Background(), bucket, file, bytes.NewReader([]byte("content"))))
	}

	objects, err := provider.ListObjects(context.Background(), bucket, "floats")
	require.NoError(t, err)

	var names []string
	for _, obj := range objects {
		names = append(names, obj.Name)
	}
	assert.ElementsMatch(t, []string{"floats/a.csv", "floats/sub/b.csv"}, names)
}

func TestLocalProvider_IterObjects(t *testing.T) {
	provider, _ := setupTestProvider(t)

	bucket := "argo-data"
	require.NoError(t, provider.PutObject(context.Background(), bucket, "floats/a.csv", bytes.NewReader([]byte("aa"))))
	require.NoError(t, provider.PutObject(context.Background(), bucket, "floats/b.csv", bytes.NewReader([]byte("bbb"))))

	count := 0
	for obj, err := range provider.IterObjects(context.Background(), bucket, "floats") {
		require.NoError(t, err)
		assert.Greater(t, obj.Size, int64(0))
		count++
	}
	assert.Equal(t, 2, count)
}
