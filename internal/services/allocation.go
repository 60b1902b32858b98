package services

import (
	"context"
	"fmt"
	"time"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AllocationServiceInterface interface {
	Link(ctx context.Context, payload dto.LinkEquipmentTicketDTO) (*entities.EquipmentTicket, error)
	UpdateLink(ctx context.Context, ticketID, equipmentID uint64, payload dto.UpdateEquipmentTicketDTO) error
	Unlink(ctx context.Context, ticketID, equipmentID uint64) error
	ListByTicket(ctx context.Context, ticketID uint64) ([]entities.EquipmentTicket, error)
}

// AllocationService списывает оборудование на заявки. Каждое изменение связи
// зеркально отражается на остатке: дебет при привязке, кредит при отвязке.
// Для неотслеживаемого оборудования остаток не проверяется и не меняется.
type AllocationService struct {
	pool           *pgxpool.Pool
	equipmentRepo  repositories.EquipmentRepositoryInterface
	stockRepo      repositories.StockRepositoryInterface
	allocationRepo repositories.AllocationRepositoryInterface
	txTimeout      time.Duration
	logger         *zap.Logger
}

func NewAllocationService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	stockRepo repositories.StockRepositoryInterface,
	allocationRepo repositories.AllocationRepositoryInterface,
	txTimeout time.Duration,
	logger *zap.Logger,
) AllocationServiceInterface {
	return &AllocationService{
		pool:           pool,
		equipmentRepo:  equipmentRepo,
		stockRepo:      stockRepo,
		allocationRepo: allocationRepo,
		txTimeout:      txTimeout,
		logger:         logger,
	}
}

// Link привязывает оборудование к заявке. Повторная привязка той же пары не
// списывает количество дважды: дебетуется только разница между новым и уже
// записанным quantity_used, а recorded_at первой привязки сохраняется.
func (s *AllocationService) Link(ctx context.Context, payload dto.LinkEquipmentTicketDTO) (*entities.EquipmentTicket, error) {
	if payload.QuantityUsed <= 0 {
		return nil, apperrors.NewInvalidInputError("списываемое количество должно быть больше нуля")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	link := &entities.EquipmentTicket{
		TicketID:     payload.TicketID,
		EquipmentID:  payload.EquipmentID,
		QuantityUsed: payload.QuantityUsed,
	}

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		// Порядок блокировок фиксирован: оборудование, остаток, связь.
		if _, err := s.equipmentRepo.LockByID(ctx, tx, payload.EquipmentID); err != nil {
			return err
		}
		stock, err := s.stockRepo.LockQuantity(ctx, tx, payload.EquipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать остаток", err)
		}
		existing, err := s.allocationRepo.LockLink(ctx, tx, payload.TicketID, payload.EquipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать связь", err)
		}

		delta := payload.QuantityUsed
		if existing != nil {
			delta = payload.QuantityUsed - existing.QuantityUsed
		}

		if stock.Valid && delta > stock.Int64 {
			return fmt.Errorf("требуется %d, доступно %d: %w", delta, stock.Int64, apperrors.ErrInsufficientStock)
		}
		if stock.Valid && delta != 0 {
			if err := s.stockRepo.Adjust(ctx, tx, payload.EquipmentID, -delta); err != nil {
				return apperrors.NewStorageError("не удалось списать остаток", err)
			}
		}
		return s.allocationRepo.Upsert(ctx, tx, link)
	})
	if err != nil {
		s.logger.Error("Не удалось привязать оборудование к заявке",
			zap.Uint64("ticket_id", payload.TicketID),
			zap.Uint64("equipment_id", payload.EquipmentID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Оборудование привязано к заявке",
		zap.Uint64("ticket_id", payload.TicketID),
		zap.Uint64("equipment_id", payload.EquipmentID),
		zap.Int64("quantity_used", payload.QuantityUsed))
	return link, nil
}

// UpdateLink меняет количество существующей связи. recorded_at не трогается.
func (s *AllocationService) UpdateLink(ctx context.Context, ticketID, equipmentID uint64, payload dto.UpdateEquipmentTicketDTO) error {
	if payload.QuantityUsed <= 0 {
		return apperrors.NewInvalidInputError("списываемое количество должно быть больше нуля")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.LockByID(ctx, tx, equipmentID); err != nil {
			return err
		}
		stock, err := s.stockRepo.LockQuantity(ctx, tx, equipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать остаток", err)
		}
		existing, err := s.allocationRepo.LockLink(ctx, tx, ticketID, equipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать связь", err)
		}
		if existing == nil {
			return apperrors.ErrNotFound
		}

		delta := payload.QuantityUsed - existing.QuantityUsed
		if stock.Valid && delta > stock.Int64 {
			return fmt.Errorf("требуется %d, доступно %d: %w", delta, stock.Int64, apperrors.ErrInsufficientStock)
		}
		if stock.Valid && delta != 0 {
			if err := s.stockRepo.Adjust(ctx, tx, equipmentID, -delta); err != nil {
				return apperrors.NewStorageError("не удалось скорректировать остаток", err)
			}
		}
		return s.allocationRepo.UpdateQuantity(ctx, tx, ticketID, equipmentID, payload.QuantityUsed)
	})
	if err != nil {
		s.logger.Error("Не удалось изменить списание",
			zap.Uint64("ticket_id", ticketID),
			zap.Uint64("equipment_id", equipmentID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Списание изменено",
		zap.Uint64("ticket_id", ticketID),
		zap.Uint64("equipment_id", equipmentID),
		zap.Int64("quantity_used", payload.QuantityUsed))
	return nil
}

// Unlink снимает связь и возвращает списанное количество на остаток.
func (s *AllocationService) Unlink(ctx context.Context, ticketID, equipmentID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.LockByID(ctx, tx, equipmentID); err != nil {
			return err
		}
		stock, err := s.stockRepo.LockQuantity(ctx, tx, equipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать остаток", err)
		}
		existing, err := s.allocationRepo.LockLink(ctx, tx, ticketID, equipmentID)
		if err != nil {
			return apperrors.NewStorageError("не удалось прочитать связь", err)
		}
		if existing == nil {
			return apperrors.ErrNotFound
		}

		if err := s.allocationRepo.Delete(ctx, tx, ticketID, equipmentID); err != nil {
			return err
		}
		if stock.Valid {
			if err := s.stockRepo.Adjust(ctx, tx, equipmentID, existing.QuantityUsed); err != nil {
				return apperrors.NewStorageError("не удалось вернуть остаток", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось отвязать оборудование от заявки",
			zap.Uint64("ticket_id", ticketID),
			zap.Uint64("equipment_id", equipmentID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Оборудование отвязано от заявки",
		zap.Uint64("ticket_id", ticketID),
		zap.Uint64("equipment_id", equipmentID))
	return nil
}

func (s *AllocationService) ListByTicket(ctx context.Context, ticketID uint64) ([]entities.EquipmentTicket, error) {
	return s.allocationRepo.ListByTicket(ctx, s.pool, ticketID)
}
