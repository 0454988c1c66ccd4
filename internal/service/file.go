package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/evenzo/evenzo-backend/pkg/storage"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}

func validateImageFile(file *multipart.FileHeader) error {
	if !isValidImageType(file.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: unsupported image type for %q", ErrValidation, file.Filename)
	}
	if file.Size > maxUploadSize {
		return fmt.Errorf("%w: file %q is too large", ErrValidation, file.Filename)
	}
	return nil
}

// uploadImage streams a validated multipart file to object storage and
// returns the public URL.
func uploadImage(ctx context.Context, store storage.ObjectStorage, key string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return store.Upload(ctx, key, src, file.Header.Get("Content-Type"))
}
