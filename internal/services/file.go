package services

import (
	"bytes"
	"context"
	"time"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/filestorage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FileServiceInterface interface {
	UploadAndLink(ctx context.Context, equipmentID, uploadedBy uint64, files []dto.UploadFileDTO) ([]dto.FileDTO, error)
	UploadFile(ctx context.Context, uploadedBy uint64, payload dto.UploadFileDTO) (*dto.FileDTO, error)
	DeleteFile(ctx context.Context, fileID uint64) error
	Unlink(ctx context.Context, equipmentID, fileID uint64) error
	ListByEquipment(ctx context.Context, equipmentID uint64) ([]dto.FileDTO, error)
}

// FileService связывает реляционные метаданные с объектным хранилищем.
// Хранилище не участвует в транзакции БД, поэтому порядок операций жесткий:
// при загрузке сначала пишем объект, потом строку; при удалении наоборот.
// Осиротевший объект в хранилище допустим, строка без объекта — нет.
type FileService struct {
	pool          *pgxpool.Pool
	fileRepo      repositories.FileRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	storage       filestorage.ObjectStorageInterface
	bucket        string
	txTimeout     time.Duration
	logger        *zap.Logger
}

func NewFileService(
	pool *pgxpool.Pool,
	fileRepo repositories.FileRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	storage filestorage.ObjectStorageInterface,
	bucket string,
	txTimeout time.Duration,
	logger *zap.Logger,
) FileServiceInterface {
	return &FileService{
		pool:          pool,
		fileRepo:      fileRepo,
		equipmentRepo: equipmentRepo,
		storage:       storage,
		bucket:        bucket,
		txTimeout:     txTimeout,
		logger:        logger,
	}
}

// UploadAndLink загружает пакет файлов и привязывает их к оборудованию.
// Операция атомарна по принципу все-или-ничего: любая ошибка откатывает
// транзакцию, а уже записанные объекты зачищаются компенсацией.
func (s *FileService) UploadAndLink(ctx context.Context, equipmentID, uploadedBy uint64, files []dto.UploadFileDTO) ([]dto.FileDTO, error) {
	if len(files) == 0 {
		return nil, apperrors.NewInvalidInputError("список файлов пуст")
	}
	for _, f := range files {
		if err := validateUpload(f); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var result []dto.FileDTO
	var writtenObjects []string

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.LockByID(ctx, tx, equipmentID); err != nil {
			return err
		}

		result = make([]dto.FileDTO, 0, len(files))
		for _, f := range files {
			objectName := filestorage.NewObjectName(f.FileName)
			if err := s.storage.Put(ctx, objectName, bytes.NewReader(f.Payload), f.Size, f.MimeType); err != nil {
				return apperrors.NewStorageError("не удалось записать объект", err)
			}
			writtenObjects = append(writtenObjects, objectName)

			file := entities.File{
				FileName:   f.FileName,
				FileType:   f.MimeType,
				FileSize:   f.Size,
				StorageURL: s.storage.URL(objectName),
				UploadedBy: uploadedBy,
			}
			if err := s.fileRepo.Insert(ctx, tx, &file); err != nil {
				return err
			}
			if err := s.fileRepo.Link(ctx, tx, equipmentID, file.ID); err != nil {
				return err
			}
			result = append(result, fileToDTO(file))
		}
		return nil
	})
	if err != nil {
		// Транзакция откатилась, строк нет — убираем объекты, которые успели записать.
		s.cleanupObjects(writtenObjects)
		s.logger.Error("Не удалось загрузить файлы",
			zap.Uint64("equipment_id", equipmentID),
			zap.Int("count", len(files)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Файлы загружены и привязаны",
		zap.Uint64("equipment_id", equipmentID),
		zap.Int("count", len(result)))
	return result, nil
}

// UploadFile загружает одиночный файл без привязки к оборудованию.
func (s *FileService) UploadFile(ctx context.Context, uploadedBy uint64, payload dto.UploadFileDTO) (*dto.FileDTO, error) {
	if err := validateUpload(payload); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var result dto.FileDTO
	var writtenObjects []string

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		objectName := filestorage.NewObjectName(payload.FileName)
		if err := s.storage.Put(ctx, objectName, bytes.NewReader(payload.Payload), payload.Size, payload.MimeType); err != nil {
			return apperrors.NewStorageError("не удалось записать объект", err)
		}
		writtenObjects = append(writtenObjects, objectName)

		file := entities.File{
			FileName:   payload.FileName,
			FileType:   payload.MimeType,
			FileSize:   payload.Size,
			StorageURL: s.storage.URL(objectName),
			UploadedBy: uploadedBy,
		}
		if err := s.fileRepo.Insert(ctx, tx, &file); err != nil {
			return err
		}
		result = fileToDTO(file)
		return nil
	})
	if err != nil {
		s.cleanupObjects(writtenObjects)
		s.logger.Error("Не удалось загрузить файл", zap.String("file_name", payload.FileName), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Файл загружен", zap.Uint64("file_id", result.ID), zap.String("file_name", result.FileName))
	return &result, nil
}

// DeleteFile удаляет файл, на который больше никто не ссылается.
// Строка удаляется в транзакции, объект — после коммита: если хранилище
// недоступно, останется осиротевший объект, но не битая ссылка.
func (s *FileService) DeleteFile(ctx context.Context, fileID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var objectName string

	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		file, err := s.fileRepo.LockByID(ctx, tx, fileID)
		if err != nil {
			return err
		}
		linked, err := s.fileRepo.HasLinks(ctx, tx, fileID)
		if err != nil {
			return apperrors.NewStorageError("не удалось проверить привязки файла", err)
		}
		if linked {
			return apperrors.NewInvalidInputError("файл еще привязан к оборудованию")
		}
		if err := s.fileRepo.Delete(ctx, tx, fileID); err != nil {
			return err
		}
		objectName = filestorage.ExtractObjectName(file.StorageURL, s.bucket)
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось удалить файл", zap.Uint64("file_id", fileID), zap.Error(err))
		return err
	}

	if objectName != "" {
		if err := s.storage.Delete(context.Background(), objectName); err != nil {
			s.logger.Warn("Объект не удален из хранилища, останется осиротевшим",
				zap.Uint64("file_id", fileID),
				zap.String("object", objectName),
				zap.Error(err))
		}
	}

	s.logger.Info("Файл удален", zap.Uint64("file_id", fileID))
	return nil
}

// Unlink снимает привязку файла к оборудованию. Сам файл и объект остаются.
func (s *FileService) Unlink(ctx context.Context, equipmentID, fileID uint64) error {
	if err := s.fileRepo.Unlink(ctx, s.pool, equipmentID, fileID); err != nil {
		s.logger.Error("Не удалось отвязать файл",
			zap.Uint64("equipment_id", equipmentID),
			zap.Uint64("file_id", fileID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Файл отвязан от оборудования",
		zap.Uint64("equipment_id", equipmentID),
		zap.Uint64("file_id", fileID))
	return nil
}

func (s *FileService) ListByEquipment(ctx context.Context, equipmentID uint64) ([]dto.FileDTO, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, s.pool, equipmentID); err != nil {
		return nil, err
	}
	files, err := s.fileRepo.ListByEquipment(ctx, s.pool, equipmentID)
	if err != nil {
		return nil, apperrors.NewStorageError("не удалось получить файлы оборудования", err)
	}
	return filesToDTO(files), nil
}

// cleanupObjects зачищает объекты после отката транзакции. Ошибки зачистки
// только логируются: осиротевший объект безопаснее повторного отказа.
func (s *FileService) cleanupObjects(objectNames []string) {
	for _, name := range objectNames {
		if err := s.storage.Delete(context.Background(), name); err != nil {
			s.logger.Warn("Не удалось зачистить объект после отката",
				zap.String("object", name),
				zap.Error(err))
		}
	}
}

// validateUpload проверяет полноту метаданных до какого-либо I/O:
// имя, MIME-тип, размер и содержимое обязательны для каждого файла.
func validateUpload(f dto.UploadFileDTO) error {
	if f.FileName == "" {
		return apperrors.NewInvalidInputError("имя файла обязательно")
	}
	if f.MimeType == "" {
		return apperrors.NewInvalidInputError("MIME-тип файла обязателен")
	}
	if f.Size <= 0 {
		return apperrors.NewInvalidInputError("размер файла должен быть больше нуля")
	}
	if int64(len(f.Payload)) != f.Size {
		return apperrors.NewInvalidInputError("размер %d не совпадает с содержимым %d", f.Size, len(f.Payload))
	}
	return nil
}

func fileToDTO(f entities.File) dto.FileDTO {
	return dto.FileDTO{
		ID:         f.ID,
		FileName:   f.FileName,
		FileType:   f.FileType,
		FileSize:   f.FileSize,
		StorageURL: f.StorageURL,
		UploadedBy: f.UploadedBy,
		CreatedAt:  f.CreatedAt,
	}
}
