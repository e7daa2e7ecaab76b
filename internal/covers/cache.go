// Package covers caches catalog cover images on local disk and serves a
// bundled default when a book has no cover.
package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// URLBuilder maps a catalog cover id to its image URL.
type URLBuilder func(coverID int) string

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir   string
	coverURL   URLBuilder
	httpClient *http.Client
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string, coverURL URLBuilder) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		coverURL: coverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetCover returns the cached cover for a cover id, fetching it on first use.
// Returns an empty path for id 0.
func (c *Cache) GetCover(ctx context.Context, coverID int) (string, error) {
	if coverID <= 0 {
		return "", nil
	}

	coverURL := c.coverURL(coverID)
	cachePath := filepath.Join(c.cacheDir, c.coverFilename(coverID, coverURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, coverURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Prefetch downloads covers that are not cached yet and returns how many were fetched.
// Individual failures are logged and skipped.
func (c *Cache) Prefetch(ctx context.Context, coverIDs []int) int {
	fetched := 0
	for _, id := range coverIDs {
		if ctx.Err() != nil {
			break
		}
		if id <= 0 || c.IsCached(id) {
			continue
		}
		if _, err := c.GetCover(ctx, id); err != nil {
			log.Printf("[COVERS] Failed to prefetch cover %d: %v", id, err)
			continue
		}
		fetched++
	}
	return fetched
}

// IsCached reports whether the cover for coverID is on disk.
func (c *Cache) IsCached(coverID int) bool {
	path := filepath.Join(c.cacheDir, c.coverFilename(coverID, c.coverURL(coverID)))
	_, err := os.Stat(path)
	return err == nil
}

// Prune removes cached covers not modified within maxAge and returns how many were removed.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, "cover_*"))
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Clear removes the cache directory and everything in it.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.cacheDir)
}

// coverFilename generates a unique filename based on cover ID and URL hash.
func (c *Cache) coverFilename(coverID int, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", coverID, hash[:8])
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "BookFinder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Create temp file in same directory for atomic write
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_cover_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}

	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
