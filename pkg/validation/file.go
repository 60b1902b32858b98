package validation

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	"equipment-system/config"
)

// ValidateFile проверяет размер и MIME-тип файла.
// contextName — ключ из config.UploadContexts (например, "equipment_file").
func ValidateFile(fileName string, size int64, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if size > maxSizeBytes {
			return fmt.Errorf("размер файла (%.2f MB) превышает лимит в %d MB", float64(size)/1024/1024, rules.MaxSizeMB)
		}
	}

	// Проверка содержимого (Magic Numbers): читаем первые 512 байт.
	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return fmt.Errorf("ошибка чтения файла %s", fileName)
	}

	// Важно: возвращаем курсор чтения в начало!
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("ошибка обработки файла %s", fileName)
	}

	mimeType := http.DetectContentType(buffer)

	if !slices.Contains(rules.AllowedMimeTypes, trimMimeParams(mimeType)) {
		return fmt.Errorf("недопустимый формат файла: %s", mimeType)
	}

	return nil
}

func trimMimeParams(mime string) string {
	for i := 0; i < len(mime); i++ {
		if mime[i] == ';' {
			return mime[:i]
		}
	}
	return mime
}
