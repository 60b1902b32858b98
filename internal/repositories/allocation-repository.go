package repositories

import (
	"context"
	"fmt"

	"equipment-system/internal/entities"
	apperrors "equipment-system/pkg/errors"
)

const allocationTable = "equipment_ticket"

type AllocationRepositoryInterface interface {
	LockLink(ctx context.Context, q Querier, ticketID, equipmentID uint64) (*entities.EquipmentTicket, error)
	Upsert(ctx context.Context, q Querier, link *entities.EquipmentTicket) error
	UpdateQuantity(ctx context.Context, q Querier, ticketID, equipmentID uint64, quantityUsed int64) error
	Delete(ctx context.Context, q Querier, ticketID, equipmentID uint64) error
	ListByTicket(ctx context.Context, q Querier, ticketID uint64) ([]entities.EquipmentTicket, error)
}

type AllocationRepository struct{}

func NewAllocationRepository() AllocationRepositoryInterface {
	return &AllocationRepository{}
}

// LockLink читает связь под FOR UPDATE; nil без ошибки, если связи нет.
func (r *AllocationRepository) LockLink(ctx context.Context, q Querier, ticketID, equipmentID uint64) (*entities.EquipmentTicket, error) {
	query := fmt.Sprintf(`
        SELECT ticket_id, equipment_id, quantity_used, recorded_at
        FROM %s
        WHERE ticket_id = $1 AND equipment_id = $2
        FOR UPDATE
    `, allocationTable)

	rows, err := q.Query(ctx, query, ticketID, equipmentID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var link entities.EquipmentTicket
	if err := rows.Scan(&link.TicketID, &link.EquipmentID, &link.QuantityUsed, &link.RecordedAt); err != nil {
		return nil, err
	}
	return &link, rows.Err()
}

// Upsert вставляет связь или перезаписывает quantity_used существующей.
// recorded_at выставляется только при первой вставке и никогда не трогается.
func (r *AllocationRepository) Upsert(ctx context.Context, q Querier, link *entities.EquipmentTicket) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (ticket_id, equipment_id, quantity_used)
        VALUES ($1, $2, $3)
        ON CONFLICT (ticket_id, equipment_id)
        DO UPDATE SET quantity_used = EXCLUDED.quantity_used
        RETURNING recorded_at
    `, allocationTable)

	err := q.QueryRow(ctx, query, link.TicketID, link.EquipmentID, link.QuantityUsed).Scan(&link.RecordedAt)
	return translatePgError(err)
}

func (r *AllocationRepository) UpdateQuantity(ctx context.Context, q Querier, ticketID, equipmentID uint64, quantityUsed int64) error {
	query := fmt.Sprintf(`
        UPDATE %s SET quantity_used = $3
        WHERE ticket_id = $1 AND equipment_id = $2
    `, allocationTable)

	result, err := q.Exec(ctx, query, ticketID, equipmentID, quantityUsed)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AllocationRepository) Delete(ctx context.Context, q Querier, ticketID, equipmentID uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE ticket_id = $1 AND equipment_id = $2", allocationTable)

	result, err := q.Exec(ctx, query, ticketID, equipmentID)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AllocationRepository) ListByTicket(ctx context.Context, q Querier, ticketID uint64) ([]entities.EquipmentTicket, error) {
	query := fmt.Sprintf(`
        SELECT ticket_id, equipment_id, quantity_used, recorded_at
        FROM %s
        WHERE ticket_id = $1
        ORDER BY recorded_at
    `, allocationTable)

	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	links := make([]entities.EquipmentTicket, 0)
	for rows.Next() {
		var link entities.EquipmentTicket
		if err := rows.Scan(&link.TicketID, &link.EquipmentID, &link.QuantityUsed, &link.RecordedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
