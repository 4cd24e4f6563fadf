package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultContentType = "application/octet-stream"

// ObjectStore is the object-storage contract the submission pipeline
// needs: store a blob, resolve its public address.
type ObjectStore interface {
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// MinioStore stores issue photos in a publicly readable MinIO bucket.
type MinioStore struct {
	endpoint string
	bucket   string
	useSSL   bool
	client   *minio.Client
}

// NewMinioStore creates a MinioStore for the given endpoint and bucket.
func NewMinioStore(endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", endpoint, err)
	}

	return &MinioStore{
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
		client:   client,
	}, nil
}

// Put uploads one object under the given key.
func (s *MinioStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, content, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the address an object is readable at once stored.
// The bucket carries a public-read policy.
func (s *MinioStore) PublicURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
