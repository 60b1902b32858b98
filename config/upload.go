package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
}

var UploadContexts = map[string]UploadConfig{
	// Файлы, прикрепляемые к оборудованию: паспорта, акты, фотографии.
	"equipment_file": {
		AllowedMimeTypes: []string{
			"image/jpeg", "image/png", "image/jpg", "image/webp",
			"application/pdf",
		},
		MaxSizeMB: 20,
	},
}
