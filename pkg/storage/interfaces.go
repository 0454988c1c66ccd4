package storage

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded blobs and hands back a retrievable URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
