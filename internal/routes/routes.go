package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/controllers"
	"equipment-system/internal/repositories"
	"equipment-system/internal/services"
	"equipment-system/pkg/config"
	"equipment-system/pkg/filestorage"
)

// InitRouter собирает весь граф зависимостей в одном месте:
// репозитории, сервисы, контроллеры, маршруты.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, storage filestorage.ObjectStorageInterface, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	// --- 1. РЕПОЗИТОРИИ ---
	equipmentRepo := repositories.NewEquipmentRepository()
	stockRepo := repositories.NewStockRepository()
	allocationRepo := repositories.NewAllocationRepository()
	fileRepo := repositories.NewFileRepository()
	categoryRepo := repositories.NewCategoryRepository()
	linkRepo := repositories.NewEquipmentLinkRepository()

	// --- 2. СЕРВИСЫ ---
	equipmentService := services.NewEquipmentService(
		dbConn, equipmentRepo, stockRepo, linkRepo, fileRepo, categoryRepo,
		cfg.Tree, cfg.Postgres.TxTimeout, logger,
	)
	stockService := services.NewStockService(dbConn, equipmentRepo, stockRepo, cfg.Postgres.TxTimeout, logger)
	allocationService := services.NewAllocationService(
		dbConn, equipmentRepo, stockRepo, allocationRepo, cfg.Postgres.TxTimeout, logger,
	)
	fileService := services.NewFileService(
		dbConn, fileRepo, equipmentRepo, storage, cfg.Minio.Bucket, cfg.Postgres.TxTimeout, logger,
	)
	reportService := services.NewReportService(dbConn, equipmentRepo, cfg.Tree.FullDepth, logger)

	// --- 3. КОНТРОЛЛЕРЫ ---
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, stockService, logger)
	allocationCtrl := controllers.NewAllocationController(allocationService, logger)
	fileCtrl := controllers.NewFileController(fileService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	// --- 4. РОУТЕРЫ ---
	runEquipmentRouter(api, equipmentCtrl, fileCtrl)
	runAllocationRouter(api, allocationCtrl)
	runFileRouter(api, fileCtrl)
	runReportRouter(api, reportCtrl)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
