package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/themisai/themis/internal/filex"
)

// LocalStore writes blobs below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	dir, err := filex.EnsureDir(root)
	if err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Put writes r to root/key and returns that file path. Keys may not escape
// the root.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if _, err := filex.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dest, nil
}
