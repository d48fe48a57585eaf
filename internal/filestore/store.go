// Package filestore holds uploaded file contents. Metadata lives in the
// database; a Store only knows blob names.
package filestore

import (
	"context"
	"errors"
	"io"
)

var ErrNotExist = errors.New("stored file does not exist")

type Store interface {
	// Save writes r under name and reports the number of bytes written.
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	// Open returns ErrNotExist when the blob is missing.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove is a no-op for a missing blob.
	Remove(ctx context.Context, name string) error
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
