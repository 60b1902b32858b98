package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "equipment-system/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

// SuccessOne — для возврата одного объекта
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func ErrorResponse(c echo.Context, err error) error {
	code := apperrors.StatusCode(err)
	msg := err.Error()

	// Ошибки валидатора всегда отвечают 400.
	if _, ok := err.(validator.ValidationErrors); ok {
		code = http.StatusBadRequest
		msg = "Ошибка валидации данных"
	}

	// Для HttpError берем только пользовательское сообщение, без технических деталей
	if httpErr, ok := err.(*apperrors.HttpError); ok {
		msg = httpErr.Message
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
