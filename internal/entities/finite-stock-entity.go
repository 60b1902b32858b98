package entities

// FiniteStock — счетчик конечного остатка, 1:1 к записи оборудования.
// Отсутствие строки означает, что остаток не отслеживается ("бесконечный").
type FiniteStock struct {
	EquipmentID uint64 `json:"equipment_id"`
	Quantity    int64  `json:"quantity"`
}
