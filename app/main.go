package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"equipment-system/internal/routes"
	"equipment-system/pkg/api"
	"equipment-system/pkg/config"
	"equipment-system/pkg/database/postgresql"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/filestorage"
	applogger "equipment-system/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	e := echo.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				api.ErrorResponse(c, httpErr)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	e.Validator = api.NewValidator(validator.New())

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	if err := postgresql.RunMigrations(context.Background(), cfg.Postgres.DSN); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	storage := newObjectStorage(e, cfg, logger)

	routes.InitRouter(e, dbConn, storage, logger, cfg)

	logger.Info("Сервер запускается", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("сервер остановлен с ошибкой", zap.Error(err))
	}
}

// newObjectStorage выбирает объектное хранилище: MinIO по умолчанию,
// локальная файловая система при FILE_STORAGE=local (для разработки).
func newObjectStorage(e *echo.Echo, cfg *config.Config, logger *zap.Logger) filestorage.ObjectStorageInterface {
	if os.Getenv("FILE_STORAGE") == "local" {
		storage, err := filestorage.NewLocalFileStorage("./uploads", "/uploads")
		if err != nil {
			logger.Fatal("не удалось создать локальное хранилище", zap.Error(err))
		}
		e.Static("/uploads", "./uploads")
		return storage
	}

	storage, err := filestorage.NewMinioStorage(context.Background(), cfg.Minio, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к MinIO", zap.Error(err))
	}
	return storage
}
