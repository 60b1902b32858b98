package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	"equipment-system/pkg/config"
	apperrors "equipment-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentNodeDTO, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentNodeDTO, error)
	FindAllWithChildren(ctx context.Context) ([]*dto.EquipmentNodeDTO, error)
	GetEquipmentTree(ctx context.Context, rootID *uint64) ([]*dto.EquipmentNodeDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentNodeDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

// EquipmentService владеет формой дерева оборудования: CRUD узлов,
// уникальность серийных номеров, валидность ссылок на категории и перенос
// узлов между родителями.
type EquipmentService struct {
	pool          *pgxpool.Pool
	equipmentRepo repositories.EquipmentRepositoryInterface
	stockRepo     repositories.StockRepositoryInterface
	linkRepo      repositories.EquipmentLinkRepositoryInterface
	fileRepo      repositories.FileRepositoryInterface
	categoryRepo  repositories.CategoryRepositoryInterface
	treeCfg       config.TreeConfig
	txTimeout     time.Duration
	logger        *zap.Logger
}

func NewEquipmentService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	stockRepo repositories.StockRepositoryInterface,
	linkRepo repositories.EquipmentLinkRepositoryInterface,
	fileRepo repositories.FileRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	treeCfg config.TreeConfig,
	txTimeout time.Duration,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		pool:          pool,
		equipmentRepo: equipmentRepo,
		stockRepo:     stockRepo,
		linkRepo:      linkRepo,
		fileRepo:      fileRepo,
		categoryRepo:  categoryRepo,
		treeCfg:       treeCfg,
		txTimeout:     txTimeout,
		logger:        logger,
	}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentNodeDTO, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if payload.Quantity != nil && *payload.Quantity < 0 {
		return nil, apperrors.NewInvalidInputError("количество не может быть отрицательным")
	}

	equipment := entities.Equipment{
		CategoryID:   payload.CategoryID,
		Name:         payload.Name,
		SerialNumber: payload.SerialNumber,
		WarrantyEnd:  null.Int64FromPtr(payload.WarrantyEnd),
		Article:      null.StringFromPtr(payload.Article),
		Description:  null.StringFromPtr(payload.Description),
		ParentID:     null.Uint64FromPtr(payload.ParentID),
	}

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		exists, err := s.categoryRepo.Exists(ctx, tx, payload.CategoryID)
		if err != nil {
			return apperrors.NewStorageError("не удалось проверить категорию", err)
		}
		if !exists {
			return apperrors.NewInvalidInputError("категория %d не существует", payload.CategoryID)
		}

		taken, err := s.equipmentRepo.ExistsBySerial(ctx, tx, payload.SerialNumber, 0)
		if err != nil {
			return apperrors.NewStorageError("не удалось проверить серийный номер", err)
		}
		if taken {
			return fmt.Errorf("серийный номер %s уже занят: %w", payload.SerialNumber, apperrors.ErrConflict)
		}

		if payload.ParentID != nil {
			if _, err := s.equipmentRepo.FindByID(ctx, tx, *payload.ParentID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NewInvalidInputError("родительское оборудование %d не существует", *payload.ParentID)
				}
				return apperrors.NewStorageError("не удалось проверить родителя", err)
			}
		}

		if err := s.equipmentRepo.Create(ctx, tx, &equipment); err != nil {
			return err
		}

		if payload.Quantity != nil {
			if err := s.stockRepo.Upsert(ctx, tx, equipment.ID, *payload.Quantity); err != nil {
				return apperrors.NewStorageError("не удалось сохранить остаток", err)
			}
		}
		if len(payload.UserIDs) > 0 {
			if err := s.linkRepo.ReplaceUsers(ctx, tx, equipment.ID, payload.UserIDs); err != nil {
				return apperrors.NewStorageError("не удалось привязать пользователей", err)
			}
		}
		if len(payload.CompanyIDs) > 0 {
			if err := s.linkRepo.ReplaceCompanies(ctx, tx, equipment.ID, payload.CompanyIDs); err != nil {
				return apperrors.NewStorageError("не удалось привязать компании", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось создать оборудование", zap.String("serial_number", payload.SerialNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Оборудование создано",
		zap.Uint64("id", equipment.ID),
		zap.String("serial_number", equipment.SerialNumber),
	)
	return s.FindEquipment(ctx, equipment.ID)
}

// FindEquipment возвращает узел с остатком, файлами, связями и поддеревом
// потомков до настроенной глубины. Чтение без блокировок.
func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentNodeDTO, error) {
	node, err := s.equipmentRepo.NodeRow(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByEquipment(ctx, s.pool, id)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить файлы оборудования", err)
	}
	node.Files = filesToDTO(files)

	if node.UserIDs, err = s.linkRepo.UserIDs(ctx, s.pool, id); err != nil {
		return nil, apperrors.NewStorageError("не удалось получить пользователей оборудования", err)
	}
	if node.CompanyIDs, err = s.linkRepo.CompanyIDs(ctx, s.pool, id); err != nil {
		return nil, apperrors.NewStorageError("не удалось получить компании оборудования", err)
	}

	descendants, err := s.equipmentRepo.SubtreeRows(ctx, s.pool, id, s.treeCfg.NodeDepth)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить поддерево", err)
	}
	node.Children = buildTree(descendants, null.Uint64From(id))

	return node, nil
}

// FindAllWithChildren собирает полный лес от всех корней и денормализует
// имя категории, остаток и метаданные файлов в каждом узле.
func (s *EquipmentService) FindAllWithChildren(ctx context.Context) ([]*dto.EquipmentNodeDTO, error) {
	rows, err := s.equipmentRepo.ForestRows(ctx, s.pool, s.treeCfg.FullDepth)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить дерево оборудования", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	filesByEquipment, err := s.fileRepo.ListByEquipmentIDs(ctx, s.pool, ids)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить файлы оборудования", err)
	}
	for _, row := range rows {
		row.Files = filesToDTO(filesByEquipment[row.ID])
	}

	return buildTree(rows, null.Uint64{}), nil
}

func (s *EquipmentService) GetEquipmentTree(ctx context.Context, rootID *uint64) ([]*dto.EquipmentNodeDTO, error) {
	if rootID == nil {
		rows, err := s.equipmentRepo.ForestRows(ctx, s.pool, s.treeCfg.FullDepth)
		if err != nil {
			return nil, apperrors.NewStorageError("не удалось получить дерево оборудования", err)
		}
		return buildTree(rows, null.Uint64{}), nil
	}

	if _, err := s.equipmentRepo.FindByID(ctx, s.pool, *rootID); err != nil {
		return nil, err
	}
	rows, err := s.equipmentRepo.SubtreeRows(ctx, s.pool, *rootID, s.treeCfg.NodeDepth)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить поддерево", err)
	}
	return buildTree(rows, null.Uint64From(*rootID)), nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentNodeDTO, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		set := map[string]interface{}{}

		if payload.Name.Set {
			if !payload.Name.Value.Valid || payload.Name.Value.String == "" {
				return apperrors.NewInvalidInputError("название не может быть пустым")
			}
			set["name"] = payload.Name.Value.String
		}

		if payload.SerialNumber.Set {
			if !payload.SerialNumber.Value.Valid || payload.SerialNumber.Value.String == "" {
				return apperrors.NewInvalidInputError("серийный номер не может быть пустым")
			}
			newSerial := payload.SerialNumber.Value.String
			if newSerial != equipment.SerialNumber {
				taken, err := s.equipmentRepo.ExistsBySerial(ctx, tx, newSerial, id)
				if err != nil {
					return apperrors.NewStorageError("не удалось проверить серийный номер", err)
				}
				if taken {
					return fmt.Errorf("серийный номер %s уже занят: %w", newSerial, apperrors.ErrConflict)
				}
			}
			set["serial_number"] = newSerial
		}

		if payload.CategoryID.Set {
			if !payload.CategoryID.Value.Valid {
				return apperrors.NewInvalidInputError("категория обязательна")
			}
			exists, err := s.categoryRepo.Exists(ctx, tx, payload.CategoryID.Value.Uint64)
			if err != nil {
				return apperrors.NewStorageError("не удалось проверить категорию", err)
			}
			if !exists {
				return apperrors.NewInvalidInputError("категория %d не существует", payload.CategoryID.Value.Uint64)
			}
			set["category_id"] = payload.CategoryID.Value.Uint64
		}

		if payload.WarrantyEnd.Set {
			set["warranty_end"] = payload.WarrantyEnd.Value
		}
		if payload.Article.Set {
			set["article"] = payload.Article.Value
		}
		if payload.Description.Set {
			set["description"] = payload.Description.Value
		}

		if payload.ParentID.Set {
			if err := s.resolveNewParent(ctx, tx, equipment, payload.ParentID.Value, set); err != nil {
				return err
			}
		}

		if len(set) > 0 {
			if err := s.equipmentRepo.UpdateFields(ctx, tx, id, set); err != nil {
				return err
			}
		}

		if payload.Quantity.Set {
			if !payload.Quantity.Value.Valid {
				if err := s.stockRepo.Delete(ctx, tx, id); err != nil {
					return apperrors.NewStorageError("не удалось очистить остаток", err)
				}
			} else {
				if payload.Quantity.Value.Int64 < 0 {
					return apperrors.NewInvalidInputError("количество не может быть отрицательным")
				}
				if err := s.stockRepo.Upsert(ctx, tx, id, payload.Quantity.Value.Int64); err != nil {
					return apperrors.NewStorageError("не удалось сохранить остаток", err)
				}
			}
		}

		if payload.UserIDs != nil {
			if err := s.linkRepo.ReplaceUsers(ctx, tx, id, *payload.UserIDs); err != nil {
				return apperrors.NewStorageError("не удалось обновить пользователей", err)
			}
		}
		if payload.CompanyIDs != nil {
			if err := s.linkRepo.ReplaceCompanies(ctx, tx, id, *payload.CompanyIDs); err != nil {
				return apperrors.NewStorageError("не удалось обновить компании", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось обновить оборудование", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	return s.FindEquipment(ctx, id)
}

// resolveNewParent проверяет перенос узла: новый родитель должен существовать
// и не быть потомком переносимого узла. Проверка цикла — подъём по предкам,
// после неё родитель меняется одним прямым UPDATE.
func (s *EquipmentService) resolveNewParent(ctx context.Context, q repositories.Querier, equipment *entities.Equipment, newParent null.Uint64, set map[string]interface{}) error {
	if !newParent.Valid {
		// null — узел становится корнем.
		set["parent_id"] = nil
		return nil
	}

	if _, err := s.equipmentRepo.FindByID(ctx, q, newParent.Uint64); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("родительское оборудование %d не существует: %w", newParent.Uint64, apperrors.ErrNotFound)
		}
		return apperrors.NewStorageError("не удалось проверить родителя", err)
	}

	cycle, err := s.equipmentRepo.WouldCreateCycle(ctx, q, equipment.ID, newParent.Uint64)
	if err != nil {
		return apperrors.NewStorageError("не удалось проверить цикл в дереве", err)
	}
	if cycle {
		return apperrors.NewInvalidInputError("перенос узла %d под %d создал бы цикл", equipment.ID, newParent.Uint64)
	}

	set["parent_id"] = newParent.Uint64
	return nil
}

// DeleteEquipment удаляет узел, поднимая его детей к бывшему родителю:
// дерево остается связным, каскадного удаления потомков нет. Остаток
// удаляется вместе с узлом; связи с заявками, файлами, пользователями и
// компаниями снимаются каскадом.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.equipmentRepo.PromoteChildren(ctx, tx, id, equipment.ParentID); err != nil {
			return apperrors.NewStorageError("не удалось перенести детей узла", err)
		}
		if err := s.stockRepo.Delete(ctx, tx, id); err != nil {
			return apperrors.NewStorageError("не удалось удалить остаток", err)
		}
		return s.equipmentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error("Не удалось удалить оборудование", zap.Uint64("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Оборудование удалено", zap.Uint64("id", id))
	return nil
}

// buildTree собирает плоские строки в лес за O(n): одна раскладка по id,
// затем один проход с подвешиванием к родителю. rootParentID с Valid=false
// означает "корни леса" (parent IS NULL).
func buildTree(nodes []*dto.EquipmentNodeDTO, rootParentID null.Uint64) []*dto.EquipmentNodeDTO {
	byID := make(map[uint64]*dto.EquipmentNodeDTO, len(nodes))
	for _, node := range nodes {
		if node.Children == nil {
			node.Children = make([]*dto.EquipmentNodeDTO, 0)
		}
		byID[node.ID] = node
	}

	tree := make([]*dto.EquipmentNodeDTO, 0)
	for _, node := range nodes {
		switch {
		case sameParent(node.ParentID, rootParentID):
			tree = append(tree, node)
		default:
			if parent, ok := byID[node.ParentID.Uint64]; ok && node.ParentID.Valid {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return tree
}

func sameParent(a, b null.Uint64) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Uint64 == b.Uint64
}

func filesToDTO(files []entities.File) []dto.FileDTO {
	result := make([]dto.FileDTO, 0, len(files))
	for _, f := range files {
		result = append(result, fileToDTO(f))
	}
	return result
}
