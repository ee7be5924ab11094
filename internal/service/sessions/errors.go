package sessions

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истекла
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrAccessDenied у пользователя нет доступа к сессии
	ErrAccessDenied = errors.New("access denied")

	// ErrUnknownAction неизвестный тип действия
	ErrUnknownAction = errors.New("unknown wizard action")

	// ErrInvalidInput некорректные параметры действия
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("service: internal error")
)
