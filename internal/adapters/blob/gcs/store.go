// Package gcs uploads rendered scenes to Google Cloud Storage and hands back
// V4 signed GET URLs, so the bucket never needs public objects. The service
// account needs objectCreator, objectViewer, and serviceAccountTokenCreator.
package gcs

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/olivia-0916/storybot/internal/ports"
)

const DefaultURLTTL = 2 * time.Hour

type Store struct {
	bucket *storage.BucketHandle
	urlTTL time.Duration
}

var _ ports.ImageStore = (*Store)(nil)

func NewStore(ctx context.Context, bucketName string, urlTTL time.Duration) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	if urlTTL <= 0 {
		urlTTL = DefaultURLTTL
	}

	return &Store{bucket: client.Bucket(bucketName), urlTTL: urlTTL}, nil
}

func (s *Store) Upload(ctx context.Context, name string, data []byte) (string, error) {
	writer := s.bucket.Object(name).NewWriter(ctx)
	writer.ContentType = "image/png"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish object %s: %w", name, err)
	}

	url, err := s.bucket.SignedURL(name, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(s.urlTTL),
	})
	if err != nil {
		return "", fmt.Errorf("sign object url %s: %w", name, err)
	}
	return url, nil
}
