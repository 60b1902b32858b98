package controllers

import (
	"net/http"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	"equipment-system/pkg/api"
	apperrors "equipment-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AllocationController struct {
	allocationService services.AllocationServiceInterface
	logger            *zap.Logger
}

func NewAllocationController(allocationService services.AllocationServiceInterface, logger *zap.Logger) *AllocationController {
	return &AllocationController{
		allocationService: allocationService,
		logger:            logger,
	}
}

func (c *AllocationController) LinkEquipment(ctx echo.Context) error {
	var payload dto.LinkEquipmentTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("LinkEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("LinkEquipment: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.allocationService.Link(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("LinkEquipment: ошибка при списании оборудования",
			zap.Uint64("ticket_id", payload.TicketID),
			zap.Uint64("equipment_id", payload.EquipmentID),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "Оборудование успешно привязано к заявке", res)
}

func (c *AllocationController) UpdateLink(ctx echo.Context) error {
	ticketID, err := parseIDParam(ctx, "ticket_id")
	if err != nil {
		c.logger.Error("UpdateLink: некорректный ID заявки", zap.String("ticket_id", ctx.Param("ticket_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	equipmentID, err := parseIDParam(ctx, "equipment_id")
	if err != nil {
		c.logger.Error("UpdateLink: некорректный ID оборудования", zap.String("equipment_id", ctx.Param("equipment_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateEquipmentTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateLink: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("UpdateLink: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.allocationService.UpdateLink(ctx.Request().Context(), ticketID, equipmentID, payload); err != nil {
		c.logger.Error("UpdateLink: ошибка при изменении списания",
			zap.Uint64("ticket_id", ticketID),
			zap.Uint64("equipment_id", equipmentID),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Списание успешно изменено", nil)
}

func (c *AllocationController) UnlinkEquipment(ctx echo.Context) error {
	ticketID, err := parseIDParam(ctx, "ticket_id")
	if err != nil {
		c.logger.Error("UnlinkEquipment: некорректный ID заявки", zap.String("ticket_id", ctx.Param("ticket_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	equipmentID, err := parseIDParam(ctx, "equipment_id")
	if err != nil {
		c.logger.Error("UnlinkEquipment: некорректный ID оборудования", zap.String("equipment_id", ctx.Param("equipment_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if err := c.allocationService.Unlink(ctx.Request().Context(), ticketID, equipmentID); err != nil {
		c.logger.Error("UnlinkEquipment: ошибка при возврате оборудования",
			zap.Uint64("ticket_id", ticketID),
			zap.Uint64("equipment_id", equipmentID),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne[any](ctx, http.StatusOK, "Оборудование успешно отвязано от заявки", nil)
}

func (c *AllocationController) ListByTicket(ctx echo.Context) error {
	ticketID, err := parseIDParam(ctx, "ticket_id")
	if err != nil {
		c.logger.Error("ListByTicket: некорректный ID заявки", zap.String("ticket_id", ctx.Param("ticket_id")), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.allocationService.ListByTicket(ctx.Request().Context(), ticketID)
	if err != nil {
		c.logger.Error("ListByTicket: ошибка при получении списаний", zap.Uint64("ticket_id", ticketID), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Списания по заявке успешно получены", res)
}
