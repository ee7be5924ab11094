package events

import "errors"

var (
	// ErrEncode ошибка сериализации события
	ErrEncode = errors.New("events: failed to encode event")

	// ErrPublish ошибка отправки события в Kafka
	ErrPublish = errors.New("events: failed to publish event")
)
