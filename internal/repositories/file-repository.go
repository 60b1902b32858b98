package repositories

import (
	"context"
	"fmt"

	"equipment-system/internal/entities"
	apperrors "equipment-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

const (
	fileTable     = "files"
	fileLinkTable = "equipment_files"
	fileFields    = "id, file_name, file_type, file_size, storage_url, uploaded_by, created_at"
)

type FileRepositoryInterface interface {
	Insert(ctx context.Context, q Querier, file *entities.File) error
	LockByID(ctx context.Context, q Querier, id uint64) (*entities.File, error)
	Delete(ctx context.Context, q Querier, id uint64) error
	Link(ctx context.Context, q Querier, equipmentID, fileID uint64) error
	Unlink(ctx context.Context, q Querier, equipmentID, fileID uint64) error
	HasLinks(ctx context.Context, q Querier, fileID uint64) (bool, error)
	ListByEquipment(ctx context.Context, q Querier, equipmentID uint64) ([]entities.File, error)
	ListByEquipmentIDs(ctx context.Context, q Querier, equipmentIDs []uint64) (map[uint64][]entities.File, error)
}

type FileRepository struct{}

func NewFileRepository() FileRepositoryInterface {
	return &FileRepository{}
}

func (r *FileRepository) Insert(ctx context.Context, q Querier, file *entities.File) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (file_name, file_type, file_size, storage_url, uploaded_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `, fileTable)

	err := q.QueryRow(ctx, query,
		file.FileName,
		file.FileType,
		file.FileSize,
		file.StorageURL,
		file.UploadedBy,
	).Scan(&file.ID, &file.CreatedAt)

	return translatePgError(err)
}

func (r *FileRepository) LockByID(ctx context.Context, q Querier, id uint64) (*entities.File, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", fileFields, fileTable)

	var file entities.File
	err := q.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.FileName,
		&file.FileType,
		&file.FileSize,
		&file.StorageURL,
		&file.UploadedBy,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &file, nil
}

func (r *FileRepository) Delete(ctx context.Context, q Querier, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", fileTable)

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Link(ctx context.Context, q Querier, equipmentID, fileID uint64) error {
	query := fmt.Sprintf("INSERT INTO %s (equipment_id, file_id) VALUES ($1, $2)", fileLinkTable)

	_, err := q.Exec(ctx, query, equipmentID, fileID)
	return translatePgError(err)
}

func (r *FileRepository) Unlink(ctx context.Context, q Querier, equipmentID, fileID uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE equipment_id = $1 AND file_id = $2", fileLinkTable)

	result, err := q.Exec(ctx, query, equipmentID, fileID)
	if err != nil {
		return translatePgError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FileRepository) HasLinks(ctx context.Context, q Querier, fileID uint64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE file_id = $1)", fileLinkTable)

	var exists bool
	if err := q.QueryRow(ctx, query, fileID).Scan(&exists); err != nil {
		return false, translatePgError(err)
	}
	return exists, nil
}

func (r *FileRepository) ListByEquipment(ctx context.Context, q Querier, equipmentID uint64) ([]entities.File, error) {
	files, err := r.listLinked(ctx, q, sq.Eq{"ef.equipment_id": equipmentID})
	if err != nil {
		return nil, err
	}
	result := make([]entities.File, 0, len(files))
	for _, f := range files {
		result = append(result, f.file)
	}
	return result, nil
}

// ListByEquipmentIDs забирает файлы сразу для пачки записей одним запросом
// и раскладывает их по id оборудования (для денормализации в дереве).
func (r *FileRepository) ListByEquipmentIDs(ctx context.Context, q Querier, equipmentIDs []uint64) (map[uint64][]entities.File, error) {
	result := make(map[uint64][]entities.File)
	if len(equipmentIDs) == 0 {
		return result, nil
	}

	files, err := r.listLinked(ctx, q, sq.Eq{"ef.equipment_id": equipmentIDs})
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		result[f.equipmentID] = append(result[f.equipmentID], f.file)
	}
	return result, nil
}

type linkedFile struct {
	equipmentID uint64
	file        entities.File
}

func (r *FileRepository) listLinked(ctx context.Context, q Querier, where sq.Eq) ([]linkedFile, error) {
	query, args, err := sq.Select("ef.equipment_id", "f.id", "f.file_name", "f.file_type", "f.file_size", "f.storage_url", "f.uploaded_by", "f.created_at").
		From(fileTable + " f").
		Join(fileLinkTable + " ef ON ef.file_id = f.id").
		Where(where).
		OrderBy("f.created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	files := make([]linkedFile, 0)
	for rows.Next() {
		var lf linkedFile
		err := rows.Scan(
			&lf.equipmentID,
			&lf.file.ID,
			&lf.file.FileName,
			&lf.file.FileType,
			&lf.file.FileSize,
			&lf.file.StorageURL,
			&lf.file.UploadedBy,
			&lf.file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, lf)
	}
	return files, rows.Err()
}
