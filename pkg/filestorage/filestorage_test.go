package filestorage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectName(t *testing.T) {
	name := NewObjectName("паспорт оборудования.pdf")
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotEqual(t, name, NewObjectName("паспорт оборудования.pdf"), "имена должны быть уникальными")

	// Файл без расширения остается без расширения.
	bare := NewObjectName("README")
	assert.NotContains(t, bare, ".")
}

func TestExtractObjectName(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		bucket   string
		expected string
	}{
		{
			name:     "обычный MinIO URL",
			url:      "http://localhost:9000/equipment/abc-123.pdf",
			bucket:   "equipment",
			expected: "abc-123.pdf",
		},
		{
			name:     "вложенный путь после бакета",
			url:      "https://storage.example.com/equipment/2026/abc.png",
			bucket:   "equipment",
			expected: "2026/abc.png",
		},
		{
			name:     "бакет не найден - последний сегмент",
			url:      "http://localhost:9000/other/abc-123.pdf",
			bucket:   "equipment",
			expected: "abc-123.pdf",
		},
		{
			name:     "экранированное имя",
			url:      "http://localhost:9000/equipment/%D1%81%D1%85%D0%B5%D0%BC%D0%B0.pdf",
			bucket:   "equipment",
			expected: "схема.pdf",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractObjectName(tc.url, tc.bucket))
		})
	}
}

func TestLocalFileStorage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalFileStorage(dir, "/uploads")
	require.NoError(t, err)

	err = storage.Put(context.Background(), "doc.pdf", bytes.NewReader([]byte("содержимое")), 0, "application/pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "содержимое", string(data))

	assert.Equal(t, "/uploads/doc.pdf", storage.URL("doc.pdf"))

	require.NoError(t, storage.Delete(context.Background(), "doc.pdf"))
	_, err = os.Stat(filepath.Join(dir, "doc.pdf"))
	assert.True(t, os.IsNotExist(err))

	// Повторное удаление не ошибка.
	assert.NoError(t, storage.Delete(context.Background(), "doc.pdf"))
}
