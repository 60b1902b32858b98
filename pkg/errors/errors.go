package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Доменные ошибки ядра. Они должны доходить до вызывающего кода без обёрток,
// поэтому сравнение всегда через errors.Is.
var (
	ErrNotFound          = fmt.Errorf("запись не найдена")
	ErrConflict          = fmt.Errorf("нарушение уникальности")
	ErrInsufficientStock = fmt.Errorf("недостаточно остатка оборудования")
	ErrBadRequest        = fmt.Errorf("неверный запрос")
)

// InvalidInputError — ошибка валидации входных данных с человекочитаемым текстом.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError несёт HTTP-код, пользовательское сообщение и исходную причину.
// Инфраструктурные сбои (БД, объектное хранилище) оборачиваются в HttpError
// на границе сервиса, чтобы вызывающий код не зависел от деталей хранилища.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// NewStorageError оборачивает инфраструктурный сбой хранилища.
func NewStorageError(message string, err error) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message, err, nil)
}

// StatusCode переводит ошибку ядра в HTTP-статус.
func StatusCode(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	var invalidInput *InvalidInputError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, ErrBadRequest), errors.As(err, &invalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
