package repositories

import (
	"context"
	"fmt"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	apperrors "equipment-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
)

const equipmentTable = "equipment"
const equipmentFields = "id, parent_id, category_id, name, serial_number, warranty_end, article, description, created_at, updated_at"

type EquipmentRepositoryInterface interface {
	Create(ctx context.Context, q Querier, equipment *entities.Equipment) error
	FindByID(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error)
	LockByID(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error)
	ExistsBySerial(ctx context.Context, q Querier, serialNumber string, excludeID uint64) (bool, error)
	UpdateFields(ctx context.Context, q Querier, id uint64, set map[string]interface{}) error
	WouldCreateCycle(ctx context.Context, q Querier, nodeID uint64, newParentID uint64) (bool, error)
	PromoteChildren(ctx context.Context, q Querier, id uint64, newParentID null.Uint64) error
	Delete(ctx context.Context, q Querier, id uint64) error
	ForestRows(ctx context.Context, q Querier, maxDepth int) ([]*dto.EquipmentNodeDTO, error)
	SubtreeRows(ctx context.Context, q Querier, rootID uint64, maxDepth int) ([]*dto.EquipmentNodeDTO, error)
	NodeRow(ctx context.Context, q Querier, id uint64) (*dto.EquipmentNodeDTO, error)
}

type EquipmentRepository struct{}

func NewEquipmentRepository() EquipmentRepositoryInterface {
	return &EquipmentRepository{}
}

func (r *EquipmentRepository) Create(ctx context.Context, q Querier, equipment *entities.Equipment) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (parent_id, category_id, name, serial_number, warranty_end, article, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `, equipmentTable)

	err := q.QueryRow(ctx, query,
		equipment.ParentID,
		equipment.CategoryID,
		equipment.Name,
		equipment.SerialNumber,
		equipment.WarrantyEnd,
		equipment.Article,
		equipment.Description,
	).Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)

	return translatePgError(err)
}

func (r *EquipmentRepository) FindByID(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error) {
	return r.findByID(ctx, q, id, false)
}

// LockByID читает запись под эксклюзивной блокировкой строки. Все операции
// читают-потом-пишут через этот метод, чтобы конкурирующие транзакции по
// одному и тому же оборудованию выполнялись последовательно.
func (r *EquipmentRepository) LockByID(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error) {
	return r.findByID(ctx, q, id, true)
}

func (r *EquipmentRepository) findByID(ctx context.Context, q Querier, id uint64, forUpdate bool) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentFields, equipmentTable)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var equipment entities.Equipment
	err := q.QueryRow(ctx, query, id).Scan(
		&equipment.ID,
		&equipment.ParentID,
		&equipment.CategoryID,
		&equipment.Name,
		&equipment.SerialNumber,
		&equipment.WarrantyEnd,
		&equipment.Article,
		&equipment.Description,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &equipment, nil
}

func (r *EquipmentRepository) ExistsBySerial(ctx context.Context, q Querier, serialNumber string, excludeID uint64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE serial_number = $1 AND id != $2)", equipmentTable)

	var exists bool
	if err := q.QueryRow(ctx, query, serialNumber, excludeID).Scan(&exists); err != nil {
		return false, translatePgError(err)
	}
	return exists, nil
}

func (r *EquipmentRepository) UpdateFields(ctx context.Context, q Querier, id uint64, set map[string]interface{}) error {
	if len(set) == 0 {
		return nil
	}

	query, args, err := sq.Update(equipmentTable).
		SetMap(set).
		Set("updated_at", sq.Expr("EXTRACT(EPOCH FROM NOW())::bigint")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// WouldCreateCycle поднимается по цепочке предков предлагаемого родителя.
// Если среди них встречается сам узел (или родитель и есть узел), перенос
// создал бы цикл.
func (r *EquipmentRepository) WouldCreateCycle(ctx context.Context, q Querier, nodeID uint64, newParentID uint64) (bool, error) {
	if nodeID == newParentID {
		return true, nil
	}

	query := fmt.Sprintf(`
        WITH RECURSIVE ancestors AS (
            SELECT id, parent_id
            FROM %s
            WHERE id = $1

            UNION ALL

            SELECT e.id, e.parent_id
            FROM %s e
            INNER JOIN ancestors a ON e.id = a.parent_id
        )
        SELECT EXISTS(SELECT 1 FROM ancestors WHERE id = $2)
    `, equipmentTable, equipmentTable)

	var cycle bool
	if err := q.QueryRow(ctx, query, newParentID, nodeID).Scan(&cycle); err != nil {
		return false, translatePgError(err)
	}
	return cycle, nil
}

// PromoteChildren поднимает всех прямых детей узла на уровень его бывшего
// родителя: дерево остается связным, дети не осиротеют и не удаляются каскадом.
func (r *EquipmentRepository) PromoteChildren(ctx context.Context, q Querier, id uint64, newParentID null.Uint64) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET parent_id = $2, updated_at = EXTRACT(EPOCH FROM NOW())::bigint
        WHERE parent_id = $1
    `, equipmentTable)

	_, err := q.Exec(ctx, query, id, newParentID)
	return translatePgError(err)
}

func (r *EquipmentRepository) Delete(ctx context.Context, q Querier, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", equipmentTable)

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ForestRows выбирает все дерево от корней рекурсивным CTE с ограничением
// глубины и денормализует имя категории и остаток. Сборка вложенной
// структуры выполняется в памяти сервисом за O(n).
func (r *EquipmentRepository) ForestRows(ctx context.Context, q Querier, maxDepth int) ([]*dto.EquipmentNodeDTO, error) {
	query := fmt.Sprintf(`
        WITH RECURSIVE equipment_hierarchy AS (
            SELECT e.id, e.parent_id, e.category_id, e.name, e.serial_number,
                   e.warranty_end, e.article, e.description, e.created_at, e.updated_at,
                   1 AS level
            FROM %s e
            WHERE e.parent_id IS NULL

            UNION ALL

            SELECT c.id, c.parent_id, c.category_id, c.name, c.serial_number,
                   c.warranty_end, c.article, c.description, c.created_at, c.updated_at,
                   eh.level + 1
            FROM %s c
            INNER JOIN equipment_hierarchy eh ON c.parent_id = eh.id
            WHERE eh.level < $1
        )
        SELECT eh.id, eh.parent_id, eh.category_id, cat.name AS category_name,
               eh.name, eh.serial_number, eh.warranty_end, eh.article, eh.description,
               fe.quantity, eh.created_at, eh.updated_at
        FROM equipment_hierarchy eh
        LEFT JOIN categories cat ON eh.category_id = cat.id
        LEFT JOIN finite_equipment fe ON eh.id = fe.equipment_id
        ORDER BY eh.level, eh.name
    `, equipmentTable, equipmentTable)

	return r.scanNodeRows(ctx, q, query, maxDepth)
}

// SubtreeRows выбирает потомков одного узла (сам узел не входит).
func (r *EquipmentRepository) SubtreeRows(ctx context.Context, q Querier, rootID uint64, maxDepth int) ([]*dto.EquipmentNodeDTO, error) {
	query := fmt.Sprintf(`
        WITH RECURSIVE equipment_hierarchy AS (
            SELECT e.id, e.parent_id, e.category_id, e.name, e.serial_number,
                   e.warranty_end, e.article, e.description, e.created_at, e.updated_at,
                   1 AS level
            FROM %s e
            WHERE e.parent_id = $1

            UNION ALL

            SELECT c.id, c.parent_id, c.category_id, c.name, c.serial_number,
                   c.warranty_end, c.article, c.description, c.created_at, c.updated_at,
                   eh.level + 1
            FROM %s c
            INNER JOIN equipment_hierarchy eh ON c.parent_id = eh.id
            WHERE eh.level < $2
        )
        SELECT eh.id, eh.parent_id, eh.category_id, cat.name AS category_name,
               eh.name, eh.serial_number, eh.warranty_end, eh.article, eh.description,
               fe.quantity, eh.created_at, eh.updated_at
        FROM equipment_hierarchy eh
        LEFT JOIN categories cat ON eh.category_id = cat.id
        LEFT JOIN finite_equipment fe ON eh.id = fe.equipment_id
        ORDER BY eh.level, eh.name
    `, equipmentTable, equipmentTable)

	return r.scanNodeRows(ctx, q, query, rootID, maxDepth)
}

// NodeRow читает один узел с именем категории, именем родителя и остатком.
func (r *EquipmentRepository) NodeRow(ctx context.Context, q Querier, id uint64) (*dto.EquipmentNodeDTO, error) {
	query := fmt.Sprintf(`
        SELECT e.id, e.parent_id, e.category_id, cat.name AS category_name, p.name AS parent_name,
               e.name, e.serial_number, e.warranty_end, e.article, e.description,
               fe.quantity, e.created_at, e.updated_at
        FROM %s e
        LEFT JOIN categories cat ON e.category_id = cat.id
        LEFT JOIN %s p ON e.parent_id = p.id
        LEFT JOIN finite_equipment fe ON e.id = fe.equipment_id
        WHERE e.id = $1
    `, equipmentTable, equipmentTable)

	var node dto.EquipmentNodeDTO
	err := q.QueryRow(ctx, query, id).Scan(
		&node.ID,
		&node.ParentID,
		&node.CategoryID,
		&node.CategoryName,
		&node.ParentName,
		&node.Name,
		&node.SerialNumber,
		&node.WarrantyEnd,
		&node.Article,
		&node.Description,
		&node.Quantity,
		&node.CreatedAt,
		&node.UpdatedAt,
	)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &node, nil
}

func (r *EquipmentRepository) scanNodeRows(ctx context.Context, q Querier, query string, args ...any) ([]*dto.EquipmentNodeDTO, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	nodes := make([]*dto.EquipmentNodeDTO, 0)
	for rows.Next() {
		var node dto.EquipmentNodeDTO
		err := rows.Scan(
			&node.ID,
			&node.ParentID,
			&node.CategoryID,
			&node.CategoryName,
			&node.Name,
			&node.SerialNumber,
			&node.WarrantyEnd,
			&node.Article,
			&node.Description,
			&node.Quantity,
			&node.CreatedAt,
			&node.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &node)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}
