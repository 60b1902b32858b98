package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader — минимальная сигнатура PNG, достаточная для http.DetectContentType.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestValidateFile(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), make([]byte, 100)...)

	err := ValidateFile("фото.png", int64(len(content)), bytes.NewReader(content), "equipment_file")
	assert.NoError(t, err)
}

func TestValidateFile_SizeLimit(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), make([]byte, 100)...)

	// Лимит equipment_file — 20 MB; размер объявлен больше фактического буфера.
	err := ValidateFile("огромный.png", 21*1024*1024, bytes.NewReader(content), "equipment_file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "превышает лимит")
}

func TestValidateFile_ForbiddenMime(t *testing.T) {
	// ZIP-архив не входит в разрешенные типы.
	zipContent := append([]byte{0x50, 0x4B, 0x03, 0x04}, make([]byte, 100)...)

	err := ValidateFile("архив.zip", int64(len(zipContent)), bytes.NewReader(zipContent), "equipment_file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимый формат")
}

func TestValidateFile_UnknownContext(t *testing.T) {
	err := ValidateFile("файл.png", 10, bytes.NewReader(pngHeader), "unknown_context")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "неизвестный контекст")
}

func TestValidateFile_RewindsReader(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	reader := bytes.NewReader(content)

	require.NoError(t, ValidateFile("фото.png", int64(len(content)), reader, "equipment_file"))

	// После валидации курсор должен стоять в начале файла.
	pos, err := reader.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}
