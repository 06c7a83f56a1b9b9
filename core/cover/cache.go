package cover

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"Melodex/logger"
)

// Cache is the on-disk cover art cache. Covers are stored under a
// content hash of (artist, album) so every song of an album shares one
// cached image.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cover cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// hash is the cache key for an album's cover.
func hash(artist, album string) string {
	h := sha1.New()
	h.Write([]byte(artist))
	h.Write([]byte{0})
	h.Write([]byte(album))
	return hex.EncodeToString(h.Sum(nil))
}

// Path returns where the cover for an album would live, whether or not
// it exists yet.
func (c *Cache) Path(artist, album string) string {
	return filepath.Join(c.dir, hash(artist, album)+".jpg")
}

// Probe reports whether a cached cover exists for the album and where.
// Suitable for model.SetArtCacheProbe.
func (c *Cache) Probe(artist, album string) (string, bool) {
	path := c.Path(artist, album)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store writes cover image data into the cache and returns its path.
func (c *Cache) Store(artist, album string, data []byte) (string, error) {
	path := c.Path(artist, album)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cached cover %s: %w", path, err)
	}
	logger.Debug("Cover cached", logger.String("artist", artist), logger.String("album", album))
	return path, nil
}
