package entities

// EquipmentTicket — связь оборудования с заявкой и списанное количество.
// recorded_at выставляется один раз при создании связи и не меняется
// при последующих обновлениях количества.
type EquipmentTicket struct {
	TicketID     uint64 `json:"ticket_id"`
	EquipmentID  uint64 `json:"equipment_id"`
	QuantityUsed int64  `json:"quantity_used"`
	RecordedAt   int64  `json:"recorded_at"`
}
