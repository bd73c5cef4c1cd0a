// Package assets loads and caches sprite images.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrEmptyKey = errors.New("assets: empty image key")

// Cache decodes images from a list of filesystems, searched in order, and
// keeps them by key.
type Cache struct {
	sources []fs.FS
	images  map[string]image.Image
}

// NewCache searches sources in order. Put embedded assets first and disk
// directories after them, or the reverse to let disk files override.
func NewCache(sources ...fs.FS) *Cache {
	return &Cache{sources: sources, images: map[string]image.Image{}}
}

// Register stores an image by key.
func (c *Cache) Register(key string, img image.Image) {
	if c == nil || key == "" || img == nil {
		return
	}
	c.images[key] = img
}

// Get returns a cached image by key.
func (c *Cache) Get(key string) image.Image {
	if c == nil || key == "" {
		return nil
	}
	return c.images[key]
}

// Load returns the image for key, decoding and caching it on first use.
func (c *Cache) Load(key string) (image.Image, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if img := c.Get(key); img != nil {
		return img, nil
	}
	img, err := c.decode(key)
	if err != nil {
		return nil, err
	}
	c.Register(key, img)
	return img, nil
}

func (c *Cache) decode(key string) (image.Image, error) {
	if c == nil {
		return nil, fmt.Errorf("assets: load %s: nil cache", key)
	}
	clean := cleanPath(key)
	tried := []string{clean, path.Join("assets", clean), path.Base(clean)}
	for _, src := range c.sources {
		for _, p := range tried {
			b, err := fs.ReadFile(src, p)
			if err != nil {
				continue
			}
			img, _, err := image.Decode(bytes.NewReader(b))
			if err != nil {
				return nil, fmt.Errorf("assets: decode %s: %w", key, err)
			}
			return img, nil
		}
	}
	return nil, fmt.Errorf("assets: load %s: %w", key, fs.ErrNotExist)
}

func cleanPath(key string) string {
	s := strings.ReplaceAll(key, "\\", "/")
	s = strings.TrimPrefix(s, "./")
	return path.Clean(s)
}
