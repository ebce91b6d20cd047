package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/config"
)

type minioStorage struct {
	client   *minio.Client
	bucket   string
	location string
}

func NewMinIOStorage(cfg config.MinIOConfig) (StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioStorage{
		client:   client,
		bucket:   cfg.Bucket,
		location: cfg.Location,
	}, nil
}

func (s *minioStorage) EnsureReady(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.location}); err != nil {
		// Another instance may have created it in the meantime.
		if exists, errExists := s.client.BucketExists(ctx, s.bucket); errExists == nil && exists {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	log.Info().Str("bucket", s.bucket).Msg("✅ MinIO bucket created")
	return nil
}

func (s *minioStorage) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	key := newObjectKey(originalName)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			"original-filename": originalName,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return key, nil
}

func (s *minioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// NewStorageService picks the storage backend named by cfg.Storage.Driver.
func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinIO:
		return NewMinIOStorage(cfg.MinIO)
	case config.StorageDriverLocal, "":
		return NewLocalStorage(cfg.Storage.UploadPath), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}
}
