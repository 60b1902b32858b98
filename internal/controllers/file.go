package controllers

import (
	"io"
	"mime/multipart"
	"net/http"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	"equipment-system/pkg/api"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/validation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const uploadContext = "equipment_file"

type FileController struct {
	fileService services.FileServiceInterface
	logger      *zap.Logger
}

func NewFileController(fileService services.FileServiceInterface, logger *zap.Logger) *FileController {
	return &FileController{
		fileService: fileService,
		logger:      logger,
	}
}

// UploadToEquipment принимает multipart-форму с полем files и привязывает
// все файлы к оборудованию одной операцией.
func (c *FileController) UploadToEquipment(ctx echo.Context) error {
	equipmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("UploadToEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		c.logger.Error("UploadToEquipment: ошибка чтения multipart-формы", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат multipart-запроса", err, nil))
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Файлы не были переданы", apperrors.ErrBadRequest, nil))
	}

	payloads := make([]dto.UploadFileDTO, 0, len(headers))
	for _, header := range headers {
		payload, err := c.readUpload(header)
		if err != nil {
			return api.ErrorResponse(ctx, err)
		}
		payloads = append(payloads, *payload)
	}

	res, err := c.fileService.UploadAndLink(ctx.Request().Context(), equipmentID, uploaderID(ctx), payloads)
	if err != nil {
		c.logger.Error("UploadToEquipment: ошибка при загрузке файлов",
			zap.Uint64("equipment_id", equipmentID),
			zap.Int("count", len(payloads)),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "Файлы успешно загружены", res)
}

// Upload загружает одиночный файл без привязки к оборудованию.
func (c *FileController) Upload(ctx echo.Context) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Файл не был передан", apperrors.ErrBadRequest, nil))
	}

	payload, err := c.readUpload(header)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.fileService.UploadFile(ctx.Request().Context(), uploaderID(ctx), *payload)
	if err != nil {
		c.logger.Error("Upload: ошибка при загрузке файла", zap.String("file_name", header.Filename), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "Файл успешно загружен", res)
}

func (c *FileController) DeleteFile(ctx echo.Context) error {
	fileID, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("DeleteFile: некорректный ID файла", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.fileService.DeleteFile(ctx.Request().Context(), fileID); err != nil {
		c.logger.Error("DeleteFile: ошибка при удалении файла", zap.Uint64("file_id", fileID), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Файл успешно удален", nil)
}

func (c *FileController) UnlinkFile(ctx echo.Context) error {
	equipmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("UnlinkFile: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	fileID, err := parseIDParam(ctx, "file_id")
	if err != nil {
		c.logger.Error("UnlinkFile: некорректный ID файла", zap.String("file_id", ctx.Param("file_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.fileService.Unlink(ctx.Request().Context(), equipmentID, fileID); err != nil {
		c.logger.Error("UnlinkFile: ошибка при отвязке файла",
			zap.Uint64("equipment_id", equipmentID),
			zap.Uint64("file_id", fileID),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Файл успешно отвязан", nil)
}

func (c *FileController) ListByEquipment(ctx echo.Context) error {
	equipmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("ListByEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.fileService.ListByEquipment(ctx.Request().Context(), equipmentID)
	if err != nil {
		c.logger.Error("ListByEquipment: ошибка при получении файлов", zap.Uint64("equipment_id", equipmentID), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Файлы оборудования успешно получены", res)
}

// readUpload валидирует multipart-файл и вычитывает его в память.
func (c *FileController) readUpload(header *multipart.FileHeader) (*dto.UploadFileDTO, error) {
	src, err := header.Open()
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil)
	}
	defer src.Close()

	if err := validation.ValidateFile(header.Filename, header.Size, src, uploadContext); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil)
	}

	payload, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка чтения файла", err, nil)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}

	return &dto.UploadFileDTO{
		FileName: header.Filename,
		MimeType: contentType,
		Size:     int64(len(payload)),
		Payload:  payload,
	}, nil
}

// uploaderID берет ID пользователя, проставленный внешним слоем авторизации.
// Без него пишем 0: аутентификация не входит в зону ответственности ядра.
func uploaderID(ctx echo.Context) uint64 {
	if id, ok := ctx.Get("user_id").(uint64); ok {
		return id
	}
	return 0
}
