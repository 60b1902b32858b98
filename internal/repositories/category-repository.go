package repositories

import (
	"context"
	"fmt"
)

const categoryTable = "categories"

// CategoryRepositoryInterface — справочник категорий принадлежит внешней
// подсистеме; ядру нужна только проверка существования ссылки.
type CategoryRepositoryInterface interface {
	Exists(ctx context.Context, q Querier, id uint64) (bool, error)
}

type CategoryRepository struct{}

func NewCategoryRepository() CategoryRepositoryInterface {
	return &CategoryRepository{}
}

func (r *CategoryRepository) Exists(ctx context.Context, q Querier, id uint64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", categoryTable)

	var exists bool
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, translatePgError(err)
	}
	return exists, nil
}
