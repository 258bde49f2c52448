package service

import (
	"context"
	"io"
)

// Uploader stores files in remote object storage.
type Uploader interface {
	// Upload stores file as folder/publicID and returns its public URL.
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
