package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	s3 := &AwsS3{bucket: "recipes", region: "eu-central-1"}
	link := s3.GetPublicLinkKey("recipes/abc.png")
	assert.Equal(t, "https://recipes.s3.eu-central-1.amazonaws.com/recipes/abc.png", link)
	assert.Equal(t, "recipes/abc.png", s3.KeyFromURL(link))
	assert.Empty(t, s3.KeyFromURL("https://elsewhere.example.com/recipes/abc.png"))

	minio := &MinioStore{bucket: "recipes", publicURL: "http://localhost:9000"}
	assert.Equal(t, "recipes/abc.png", minio.KeyFromURL("http://localhost:9000/recipes/recipes/abc.png"))
	assert.Empty(t, minio.KeyFromURL(""))
}

func TestNewImageStorageUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "ftp")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store, err := NewImageStorage(ctx)
	assert.Error(t, err)
	assert.Nil(t, store)
}
