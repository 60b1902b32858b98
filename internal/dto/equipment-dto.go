package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	ParentID     *uint64  `json:"parent_id"     validate:"omitempty,gt=0"`
	CategoryID   uint64   `json:"category_id"   validate:"required,gt=0"`
	Name         string   `json:"name"          validate:"required"`
	SerialNumber string   `json:"serial_number" validate:"required"`
	WarrantyEnd  *int64   `json:"warranty_end"  validate:"omitempty,gt=0"`
	Article      *string  `json:"article"       validate:"omitempty"`
	Description  *string  `json:"description"   validate:"omitempty"`
	Quantity     *int64   `json:"quantity"      validate:"omitempty,gte=0"`
	UserIDs      []uint64 `json:"user_ids"      validate:"omitempty,dive,gt=0"`
	CompanyIDs   []uint64 `json:"company_ids"   validate:"omitempty,dive,gt=0"`
}

type UpdateEquipmentDTO struct {
	ParentID     PatchUint64 `json:"parent_id"`
	CategoryID   PatchUint64 `json:"category_id"`
	Name         PatchString `json:"name"`
	SerialNumber PatchString `json:"serial_number"`
	WarrantyEnd  PatchInt64  `json:"warranty_end"`
	Article      PatchString `json:"article"`
	Description  PatchString `json:"description"`
	Quantity     PatchInt64  `json:"quantity"`
	UserIDs      *[]uint64   `json:"user_ids"`
	CompanyIDs   *[]uint64   `json:"company_ids"`
}

// EquipmentNodeDTO — узел дерева в ответах. Quantity с Valid=false означает,
// что остаток не отслеживается (это не то же самое, что ноль).
type EquipmentNodeDTO struct {
	ID           uint64              `json:"id"`
	ParentID     null.Uint64         `json:"parent_id"`
	CategoryID   uint64              `json:"category_id"`
	CategoryName null.String         `json:"category_name,omitempty"`
	ParentName   null.String         `json:"parent_name,omitempty"`
	Name         string              `json:"name"`
	SerialNumber string              `json:"serial_number"`
	WarrantyEnd  null.Int64          `json:"warranty_end"`
	Article      null.String         `json:"article"`
	Description  null.String         `json:"description"`
	Quantity     null.Int64          `json:"quantity"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
	UserIDs      []uint64            `json:"user_ids,omitempty"`
	CompanyIDs   []uint64            `json:"company_ids,omitempty"`
	Files        []FileDTO           `json:"files"`
	Children     []*EquipmentNodeDTO `json:"children"`
}

type SetQuantityDTO struct {
	// null очищает отслеживание остатка (запись удаляется).
	Quantity *int64 `json:"quantity" validate:"omitempty,gte=0"`
}
