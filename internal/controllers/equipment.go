package controllers

import (
	"net/http"
	"strconv"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	"equipment-system/pkg/api"
	apperrors "equipment-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	stockService     services.StockServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	stockService services.StockServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		stockService:     stockService,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	res, err := c.equipmentService.FindAllWithChildren(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении дерева оборудования", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Список оборудования успешно получен", res)
}

func (c *EquipmentController) GetEquipmentTree(ctx echo.Context) error {
	var rootID *uint64
	if raw := ctx.QueryParam("root_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.logger.Error("GetEquipmentTree: некорректный root_id", zap.String("root_id", raw), zap.Error(err))
			return api.ErrorResponse(ctx, apperrors.NewHttpError(
				http.StatusBadRequest, "Неверный формат root_id", err, map[string]interface{}{"param": raw}))
		}
		rootID = &id
	}

	res, err := c.equipmentService.GetEquipmentTree(ctx.Request().Context(), rootID)
	if err != nil {
		c.logger.Error("GetEquipmentTree: ошибка при построении дерева", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Дерево оборудования успешно получено", res)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("FindEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindEquipment: ошибка при поиске оборудования", zap.Uint64("id", id), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Оборудование успешно найдено", res)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("CreateEquipment: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateEquipment: ошибка при создании оборудования", zap.Any("payload", payload), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "Оборудование успешно создано", res)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("UpdateEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("UpdateEquipment: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("UpdateEquipment: ошибка при изменении оборудования", zap.Uint64("id", id), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Оборудование успешно изменено", res)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("DeleteEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id); err != nil {
		c.logger.Error("DeleteEquipment: ошибка при удалении оборудования", zap.Uint64("id", id), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Оборудование успешно удалено", nil)
}

func (c *EquipmentController) SetQuantity(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("SetQuantity: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.SetQuantityDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("SetQuantity: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("SetQuantity: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.stockService.SetQuantity(ctx.Request().Context(), id, payload.Quantity); err != nil {
		c.logger.Error("SetQuantity: ошибка при изменении остатка", zap.Uint64("id", id), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Остаток успешно изменен", nil)
}

func (c *EquipmentController) GetQuantity(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("GetQuantity: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	quantity, err := c.stockService.GetQuantity(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("GetQuantity: ошибка при получении остатка", zap.Uint64("id", id), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Остаток успешно получен", map[string]interface{}{"quantity": quantity})
}

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}
