package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio-data.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestFileLoader(t *testing.T) {
	path := writeDoc(t, "# About me\nI build things.")
	loader := NewFileLoader(path)

	text, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "I build things.")
}

func TestFileLoader_Missing(t *testing.T) {
	loader := NewFileLoader(filepath.Join(t.TempDir(), "missing.md"))

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestCachedLoader_ReadThrough(t *testing.T) {
	path := writeDoc(t, "cached content")
	client, mr := setupTestRedis(t)

	loader := NewCachedLoader(NewFileLoader(path), client, time.Minute)
	ctx := context.Background()

	text, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached content", text)

	// Second read must come from the cache, not the file.
	require.NoError(t, os.Remove(path))
	text, err = loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached content", text)

	// Once the key expires the loader goes back to the file.
	mr.FastForward(2 * time.Minute)
	_, err = loader.Load(ctx)
	assert.Error(t, err)
}

func TestCachedLoader_NilClientFallsBack(t *testing.T) {
	path := writeDoc(t, "direct content")
	loader := NewCachedLoader(NewFileLoader(path), nil, time.Minute)

	text, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "direct content", text)
}
