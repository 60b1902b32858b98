package filestorage

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStorageInterface определяет контракт внешнего объектного хранилища.
// Хранилище независимо от реляционной БД: двухфазного коммита нет,
// согласованность обеспечивает компенсационная логика сервисов.
type ObjectStorageInterface interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	URL(objectName string) string
}

// NewObjectName создает уникальное имя объекта, сохраняя расширение исходного файла.
func NewObjectName(originalFileName string) string {
	ext := filepath.Ext(originalFileName)
	return uuid.New().String() + ext
}

// ExtractObjectName достает имя объекта из сохраненного storage_url.
// Берём часть пути после имени бакета; если бакет в пути не найден,
// возвращаем последний сегмент.
func ExtractObjectName(storageURL string, bucket string) string {
	parsed, err := url.Parse(storageURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, part := range parts {
		if part == bucket && i+1 < len(parts) {
			name, _ := url.PathUnescape(strings.Join(parts[i+1:], "/"))
			return name
		}
	}
	if len(parts) == 0 {
		return ""
	}
	name, _ := url.PathUnescape(parts[len(parts)-1])
	return name
}
