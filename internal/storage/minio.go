package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage вложения в бакете MinIO/S3 с публичным чтением.
type MinioStorage struct {
	client         *mclient.Client
	bucket         string
	publicURL      string
	maxUploadBytes int64
}

// NewMinioStorage подключается к MinIO и проверяет, что бакет существует.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, maxUploadBytes int64) (*MinioStorage, error) {
	const op = "storage.NewMinioStorage"

	host, secure := parseEndpoint(endpoint)
	client, err := mclient.New(host, &mclient.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, bucket)
	}

	return &MinioStorage{
		client:         client,
		bucket:         bucket,
		publicURL:      publicBucketURL(host, secure, bucket),
		maxUploadBytes: maxUploadBytes,
	}, nil
}

func (s *MinioStorage) Save(ctx context.Context, owner uuid.UUID, originalName, contentType string, r io.Reader, size int64) (string, error) {
	if size > s.maxUploadBytes {
		return "", &ErrTooLarge{Limit: s.maxUploadBytes}
	}

	key := objectKey(owner, originalName, time.Now())
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}

	return joinURL(s.publicURL, key), nil
}

// parseEndpoint убирает схему, minio-go ждёт host:port.
func parseEndpoint(endpoint string) (host string, secure bool) {
	host = endpoint
	secure = strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		host = u.Host
		secure = u.Scheme == "https"
	}
	return host, secure
}

func publicBucketURL(host string, secure bool, bucket string) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return scheme + "://" + host + "/" + bucket
}
