package filestorage

import (
	"context"
	"fmt"
	"io"

	"equipment-system/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioStorage struct {
	client *minio.Client
	cfg    config.MinioConfig
	logger *zap.Logger
}

// NewMinioStorage подключается к MinIO и при необходимости создает бакет.
func NewMinioStorage(ctx context.Context, cfg config.MinioConfig, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиент MinIO: %w", err)
	}

	s := &MinioStorage{client: client, cfg: cfg, logger: logger}
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStorage) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("не удалось проверить бакет %q: %w", s.cfg.Bucket, err)
	}
	if !exists {
		s.logger.Info("Бакет не существует, создаем", zap.String("bucket", s.cfg.Bucket))
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("не удалось создать бакет %q: %w", s.cfg.Bucket, err)
		}
	}
	return nil
}

func (s *MinioStorage) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("не удалось загрузить объект %s: %w", objectName, err)
	}
	return nil
}

func (s *MinioStorage) Delete(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("не удалось удалить объект %s: %w", objectName, err)
	}
	return nil
}

func (s *MinioStorage) URL(objectName string) string {
	protocol := "http"
	if s.cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.cfg.Endpoint, s.cfg.Bucket, objectName)
}
