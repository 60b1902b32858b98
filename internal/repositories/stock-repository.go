package repositories

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
)

const finiteStockTable = "finite_equipment"

// StockRepositoryInterface работает со счетчиком конечного остатка.
// Отсутствие строки означает неотслеживаемый остаток, поэтому количества
// возвращаются как null.Int64: Valid=false не то же самое, что ноль.
type StockRepositoryInterface interface {
	GetQuantity(ctx context.Context, q Querier, equipmentID uint64) (null.Int64, error)
	LockQuantity(ctx context.Context, q Querier, equipmentID uint64) (null.Int64, error)
	Upsert(ctx context.Context, q Querier, equipmentID uint64, quantity int64) error
	Adjust(ctx context.Context, q Querier, equipmentID uint64, delta int64) error
	Delete(ctx context.Context, q Querier, equipmentID uint64) error
}

type StockRepository struct{}

func NewStockRepository() StockRepositoryInterface {
	return &StockRepository{}
}

func (r *StockRepository) GetQuantity(ctx context.Context, q Querier, equipmentID uint64) (null.Int64, error) {
	return r.getQuantity(ctx, q, equipmentID, false)
}

// LockQuantity читает остаток под FOR UPDATE: конкурирующие списания по
// одному оборудованию видят дебеты друг друга, а не устаревший остаток.
func (r *StockRepository) LockQuantity(ctx context.Context, q Querier, equipmentID uint64) (null.Int64, error) {
	return r.getQuantity(ctx, q, equipmentID, true)
}

func (r *StockRepository) getQuantity(ctx context.Context, q Querier, equipmentID uint64, forUpdate bool) (null.Int64, error) {
	query := fmt.Sprintf("SELECT quantity FROM %s WHERE equipment_id = $1", finiteStockTable)
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, equipmentID)
	if err != nil {
		return null.Int64{}, translatePgError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		// Строки нет — остаток не отслеживается.
		return null.Int64{}, rows.Err()
	}

	var quantity int64
	if err := rows.Scan(&quantity); err != nil {
		return null.Int64{}, err
	}
	return null.Int64From(quantity), rows.Err()
}

func (r *StockRepository) Upsert(ctx context.Context, q Querier, equipmentID uint64, quantity int64) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (equipment_id, quantity)
        VALUES ($1, $2)
        ON CONFLICT (equipment_id) DO UPDATE SET quantity = EXCLUDED.quantity
    `, finiteStockTable)

	_, err := q.Exec(ctx, query, equipmentID, quantity)
	return translatePgError(err)
}

func (r *StockRepository) Adjust(ctx context.Context, q Querier, equipmentID uint64, delta int64) error {
	query := fmt.Sprintf(`
        UPDATE %s SET quantity = quantity + $1 WHERE equipment_id = $2
    `, finiteStockTable)

	_, err := q.Exec(ctx, query, delta, equipmentID)
	return translatePgError(err)
}

func (r *StockRepository) Delete(ctx context.Context, q Querier, equipmentID uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE equipment_id = $1", finiteStockTable)

	// Отсутствие строки не ошибка: очистка неотслеживаемого остатка — no-op.
	_, err := q.Exec(ctx, query, equipmentID)
	return translatePgError(err)
}
