package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"не найдено", ErrNotFound, http.StatusNotFound},
		{"обернутое не найдено", fmt.Errorf("оборудование 5: %w", ErrNotFound), http.StatusNotFound},
		{"конфликт", ErrConflict, http.StatusConflict},
		{"обернутый конфликт", fmt.Errorf("серийный номер занят: %w", ErrConflict), http.StatusConflict},
		{"недостаточно остатка", ErrInsufficientStock, http.StatusBadRequest},
		{"неверный запрос", ErrBadRequest, http.StatusBadRequest},
		{"ошибка валидации", NewInvalidInputError("пустое имя"), http.StatusBadRequest},
		{"http-ошибка несет свой код", NewHttpError(http.StatusTeapot, "чайник", nil, nil), http.StatusTeapot},
		{"неизвестная ошибка", fmt.Errorf("что-то сломалось"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusCode(tc.err))
		})
	}
}

func TestHttpError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("нет соединения: %w", ErrNotFound)
	err := NewStorageError("не удалось прочитать запись", inner)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "не удалось прочитать запись")
}

func TestStatusCode_StorageErrorWinsOverSentinel(t *testing.T) {
	// HttpError определяет статус, даже если внутри доменная ошибка.
	err := NewStorageError("сбой хранилища", ErrNotFound)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}
