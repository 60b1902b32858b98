package services

import (
	"context"
	"time"

	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type StockServiceInterface interface {
	SetQuantity(ctx context.Context, equipmentID uint64, quantity *int64) error
	GetQuantity(ctx context.Context, equipmentID uint64) (null.Int64, error)
}

// StockService владеет счетчиком конечного остатка. Остаток опционален:
// запись без счетчика считается неотслеживаемой, и это состояние отличимо
// от нулевого остатка.
type StockService struct {
	pool          *pgxpool.Pool
	equipmentRepo repositories.EquipmentRepositoryInterface
	stockRepo     repositories.StockRepositoryInterface
	txTimeout     time.Duration
	logger        *zap.Logger
}

func NewStockService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	stockRepo repositories.StockRepositoryInterface,
	txTimeout time.Duration,
	logger *zap.Logger,
) StockServiceInterface {
	return &StockService{
		pool:          pool,
		equipmentRepo: equipmentRepo,
		stockRepo:     stockRepo,
		txTimeout:     txTimeout,
		logger:        logger,
	}
}

// SetQuantity: nil очищает отслеживание (строка удаляется), иначе upsert.
func (s *StockService) SetQuantity(ctx context.Context, equipmentID uint64, quantity *int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if quantity != nil && *quantity < 0 {
		return apperrors.NewInvalidInputError("количество не может быть отрицательным")
	}

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.LockByID(ctx, tx, equipmentID); err != nil {
			return err
		}

		if quantity == nil {
			if err := s.stockRepo.Delete(ctx, tx, equipmentID); err != nil {
				return apperrors.NewStorageError("не удалось очистить остаток", err)
			}
			return nil
		}
		if err := s.stockRepo.Upsert(ctx, tx, equipmentID, *quantity); err != nil {
			return apperrors.NewStorageError("не удалось сохранить остаток", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось изменить остаток", zap.Uint64("equipment_id", equipmentID), zap.Error(err))
		return err
	}

	if quantity == nil {
		s.logger.Info("Отслеживание остатка отключено", zap.Uint64("equipment_id", equipmentID))
	} else {
		s.logger.Info("Остаток обновлен", zap.Uint64("equipment_id", equipmentID), zap.Int64("quantity", *quantity))
	}
	return nil
}

func (s *StockService) GetQuantity(ctx context.Context, equipmentID uint64) (null.Int64, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, s.pool, equipmentID); err != nil {
		return null.Int64{}, err
	}
	return s.stockRepo.GetQuantity(ctx, s.pool, equipmentID)
}
