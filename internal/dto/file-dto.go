package dto

// UploadFileDTO — уже раскодированный файл из multipart-слоя.
// Ядро не работает с транспортом: сюда приходит готовый байтовый буфер.
type UploadFileDTO struct {
	FileName string `json:"file_name" validate:"required"`
	MimeType string `json:"mime_type" validate:"required"`
	Size     int64  `json:"size"      validate:"required,gt=0"`
	Payload  []byte `json:"-"`
}

type FileDTO struct {
	ID         uint64 `json:"id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	StorageURL string `json:"storage_url"`
	UploadedBy uint64 `json:"uploaded_by"`
	CreatedAt  int64  `json:"created_at"`
}
