package entities

import "github.com/aarondl/null/v8"

// Equipment — узел дерева оборудования. Связь parent_id образует лес:
// циклы запрещены, владение временем жизни узла принадлежит сервису
// иерархии, а не родителю.
type Equipment struct {
	ID           uint64      `json:"id"`
	ParentID     null.Uint64 `json:"parent_id"`
	CategoryID   uint64      `json:"category_id"`
	Name         string      `json:"name"`
	SerialNumber string      `json:"serial_number"`
	WarrantyEnd  null.Int64  `json:"warranty_end"`
	Article      null.String `json:"article"`
	Description  null.String `json:"description"`
	CreatedAt    int64       `json:"created_at"`
	UpdatedAt    int64       `json:"updated_at"`
}
