package cover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreAndProbe(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "covers"))
	require.NoError(t, err)

	_, ok := c.Probe("Artist", "Album")
	assert.False(t, ok)

	path, err := c.Store("Artist", "Album", []byte("jpeg bytes"))
	require.NoError(t, err)

	got, ok := c.Probe("Artist", "Album")
	assert.True(t, ok)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestCachePathIsStablePerAlbum(t *testing.T) {
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, c.Path("Artist", "Album"), c.Path("Artist", "Album"))
	assert.NotEqual(t, c.Path("Artist", "Album"), c.Path("Artist", "Other"))

	// The key is the pair, not the concatenation.
	assert.NotEqual(t, c.Path("ab", "c"), c.Path("a", "bc"))
}
