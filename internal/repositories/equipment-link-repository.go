package repositories

import (
	"context"
	"fmt"
)

const (
	equipmentUsersTable   = "equipment_users"
	equipmentCompanyTable = "equipment_company"
)

// EquipmentLinkRepositoryInterface обслуживает таблицы связей
// пользователь×оборудование и компания×оборудование. Связи не имеют
// собственного жизненного цикла: набор целиком заменяется при обновлении
// и удаляется каскадом вместе с оборудованием.
type EquipmentLinkRepositoryInterface interface {
	ReplaceUsers(ctx context.Context, q Querier, equipmentID uint64, userIDs []uint64) error
	ReplaceCompanies(ctx context.Context, q Querier, equipmentID uint64, companyIDs []uint64) error
	UserIDs(ctx context.Context, q Querier, equipmentID uint64) ([]uint64, error)
	CompanyIDs(ctx context.Context, q Querier, equipmentID uint64) ([]uint64, error)
}

type EquipmentLinkRepository struct{}

func NewEquipmentLinkRepository() EquipmentLinkRepositoryInterface {
	return &EquipmentLinkRepository{}
}

func (r *EquipmentLinkRepository) ReplaceUsers(ctx context.Context, q Querier, equipmentID uint64, userIDs []uint64) error {
	return r.replace(ctx, q, equipmentUsersTable, "user_id", equipmentID, userIDs)
}

func (r *EquipmentLinkRepository) ReplaceCompanies(ctx context.Context, q Querier, equipmentID uint64, companyIDs []uint64) error {
	return r.replace(ctx, q, equipmentCompanyTable, "company_id", equipmentID, companyIDs)
}

func (r *EquipmentLinkRepository) replace(ctx context.Context, q Querier, table, column string, equipmentID uint64, ids []uint64) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE equipment_id = $1", table)
	if _, err := q.Exec(ctx, deleteQuery, equipmentID); err != nil {
		return translatePgError(err)
	}

	if len(ids) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
        INSERT INTO %s (%s, equipment_id)
        SELECT unnest($1::int[]), $2
    `, table, column)
	if _, err := q.Exec(ctx, insertQuery, ids, equipmentID); err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *EquipmentLinkRepository) UserIDs(ctx context.Context, q Querier, equipmentID uint64) ([]uint64, error) {
	return r.ids(ctx, q, equipmentUsersTable, "user_id", equipmentID)
}

func (r *EquipmentLinkRepository) CompanyIDs(ctx context.Context, q Querier, equipmentID uint64) ([]uint64, error) {
	return r.ids(ctx, q, equipmentCompanyTable, "company_id", equipmentID)
}

func (r *EquipmentLinkRepository) ids(ctx context.Context, q Querier, table, column string, equipmentID uint64) ([]uint64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE equipment_id = $1 ORDER BY %s", column, table, column)

	rows, err := q.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
