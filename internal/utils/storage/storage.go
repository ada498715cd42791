package storage

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/utils"
)

// ImageStorage keeps recipe pictures and hands back a public link for them.
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// NewImageStorage picks the backend configured by STORAGE_DRIVER.
func NewImageStorage(ctx context.Context) (ImageStorage, error) {
	switch driver := strings.ToLower(utils.GetConfig("STORAGE_DRIVER")); driver {
	case "s3":
		s3, err := NewAwsS3(ctx)
		if err != nil {
			return nil, err
		}
		return s3, nil
	case "minio":
		store, err := NewMinioStore(
			ctx,
			utils.GetConfig("MINIO_ENDPOINT"),
			utils.GetConfig("MINIO_ACCESS_KEY"),
			utils.GetConfig("MINIO_SECRET_KEY"),
			utils.GetConfig("MINIO_BUCKET"),
			utils.GetConfig("MINIO_USE_SSL") == "true",
			utils.GetConfig("MINIO_PUBLIC_URL"),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func keyAfterPrefix(url, prefix string) string {
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
