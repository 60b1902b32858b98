package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFileStorage — реализация для разработки и тестов без MinIO:
// объекты лежат на диске, тот же контракт.
type LocalFileStorage struct {
	basePath string
	baseURL  string
}

func NewLocalFileStorage(basePath string, baseURL string) (*LocalFileStorage, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию для хранения файлов: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath, baseURL: baseURL}, nil
}

func (s *LocalFileStorage) Put(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	dst, err := os.Create(filepath.Join(s.basePath, objectName))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, reader); err != nil {
		return err
	}
	return nil
}

func (s *LocalFileStorage) Delete(_ context.Context, objectName string) error {
	fullPath := filepath.Join(s.basePath, objectName)

	// Если файла и так нет, считаем операцию успешной.
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}

func (s *LocalFileStorage) URL(objectName string) string {
	return s.baseURL + "/" + objectName
}
