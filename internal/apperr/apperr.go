// Package apperr содержит таксономию ошибок сервиса и их отображение
// в числовые коды HTTP на границе с обработчиками.
package apperr

import (
	"errors"
	"net/http"
)

// ErrBadRequest возвращается при некорректной форме входных данных.
var (
	ErrBadRequest = errors.New("bad request")
	// ErrForbidden возвращается при отказе политики авторизации.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound возвращается, если запрошенная сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict возвращается при конфликте с текущим состоянием хранилища.
	ErrConflict = errors.New("conflict")
	// ErrInternal возвращается при сбое хранилища или каталога.
	ErrInternal = errors.New("internal error")
)

// StatusCode возвращает числовой код для ошибки таксономии.
// Любая ошибка вне таксономии трактуется как внутренняя.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
