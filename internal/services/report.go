package services

import (
	"context"

	"equipment-system/internal/dto"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	InventoryRows(ctx context.Context) ([]*dto.EquipmentNodeDTO, error)
}

// ReportService отдает плоскую выборку инвентаря для выгрузки в Excel.
type ReportService struct {
	pool          *pgxpool.Pool
	equipmentRepo repositories.EquipmentRepositoryInterface
	fullDepth     int
	logger        *zap.Logger
}

func NewReportService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	fullDepth int,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{
		pool:          pool,
		equipmentRepo: equipmentRepo,
		fullDepth:     fullDepth,
		logger:        logger,
	}
}

func (s *ReportService) InventoryRows(ctx context.Context) ([]*dto.EquipmentNodeDTO, error) {
	rows, err := s.equipmentRepo.ForestRows(ctx, s.pool, s.fullDepth)
	if err != nil {
		s.logger.Error("Не удалось собрать данные для отчета", zap.Error(err))
		return nil, apperrors.NewStorageError("не удалось собрать данные для отчета", err)
	}
	return rows, nil
}
