package dto

type LinkEquipmentTicketDTO struct {
	TicketID     uint64 `json:"ticket_id"     validate:"required,gt=0"`
	EquipmentID  uint64 `json:"equipment_id"  validate:"required,gt=0"`
	QuantityUsed int64  `json:"quantity_used" validate:"required,gt=0"`
}

type UpdateEquipmentTicketDTO struct {
	QuantityUsed int64 `json:"quantity_used" validate:"required,gt=0"`
}
