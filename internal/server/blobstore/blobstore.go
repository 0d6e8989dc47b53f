// Package blobstore stores uploaded document bytes, either in an
// S3-compatible bucket or in a local directory.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Store writes blobs and returns the path recorded for the document.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) (string, error)
}

// StorageKey builds a unique, date-partitioned key that keeps the original
// file name as its last segment.
func StorageKey(name string) string {
	d := time.Now().UTC()
	return path.Join("documents", fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString(), name)
}
