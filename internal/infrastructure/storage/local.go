// Package storage holds the object-storage collaborator for book cover
// images. The core only ever consumes the URL it returns.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalImageStore writes uploads to a directory served statically under
// /uploads. Files get uuid names so uploads can never collide or traverse
// outside the directory.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates the upload directory if needed.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save streams r to disk and returns the public URL path of the stored file.
func (s *LocalImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + sanitizeExt(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}

	return "/uploads/" + name, nil
}

// sanitizeExt keeps only a plain lowercase extension from the original name.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	}
	return ""
}
