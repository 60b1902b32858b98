package entities

// File — метаданные загруженного файла. Строка создается только после
// того, как содержимое записано в объектное хранилище.
type File struct {
	ID         uint64 `json:"id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	StorageURL string `json:"storage_url"`
	UploadedBy uint64 `json:"uploaded_by"`
	CreatedAt  int64  `json:"created_at"`
}
