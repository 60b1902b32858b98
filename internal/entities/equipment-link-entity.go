package entities

// Простые таблицы связей без собственного жизненного цикла:
// удаляются каскадом вместе с оборудованием.

type EquipmentUser struct {
	UserID      uint64 `json:"user_id"`
	EquipmentID uint64 `json:"equipment_id"`
}

type EquipmentCompany struct {
	CompanyID   uint64 `json:"company_id"`
	EquipmentID uint64 `json:"equipment_id"`
}

type EquipmentFile struct {
	EquipmentID uint64 `json:"equipment_id"`
	FileID      uint64 `json:"file_id"`
}
