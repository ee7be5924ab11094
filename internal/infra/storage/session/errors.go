package session

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session.storage: session not found")

	// ErrEncode ошибка сериализации сессии
	ErrEncode = errors.New("session.storage: failed to encode session")

	// ErrDecode ошибка десериализации сессии
	ErrDecode = errors.New("session.storage: failed to decode session")

	// ErrStorage ошибка хранилища
	ErrStorage = errors.New("session.storage: storage error")
)
