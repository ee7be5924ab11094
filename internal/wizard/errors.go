package wizard

import "errors"

var (
	// ErrSlotTaken слот успел занять кто-то другой; выберите другой
	ErrSlotTaken = errors.New("wizard: slot was just taken")

	// ErrBusy предыдущий вызов еще не завершился
	ErrBusy = errors.New("wizard: another request is pending")

	// ErrInvalidTransition действие недопустимо на текущем шаге
	ErrInvalidTransition = errors.New("wizard: action not allowed in current step")

	// ErrNotAllowed действие недоступно для этого типа мастера
	ErrNotAllowed = errors.New("wizard: action not allowed for this audience")

	// ErrNotLoaded данные мастера еще не загружены
	ErrNotLoaded = errors.New("wizard: snapshot is not loaded")

	// ErrNoServices у мастера нет услуг
	ErrNoServices = errors.New("wizard: no services available")

	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = errors.New("wizard: service not found")

	// ErrAppointmentNotFound запись не найдена среди результатов поиска
	ErrAppointmentNotFound = errors.New("wizard: appointment not found")

	// ErrDateInPast выбрана прошедшая дата
	ErrDateInPast = errors.New("wizard: date is in the past")

	// ErrSlotUnavailable выбранного времени нет среди доступных слотов
	ErrSlotUnavailable = errors.New("wizard: slot is not available")

	// ErrIdentityRequired не указано имя клиента
	ErrIdentityRequired = errors.New("wizard: client identity is required")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("wizard: invalid input")

	// ErrSubmitFailed запись не удалась, можно повторить
	ErrSubmitFailed = errors.New("wizard: submit failed")

	// ErrSubmitTimeout запись не завершилась за отведенное время, можно повторить
	ErrSubmitTimeout = errors.New("wizard: submit timed out")

	// ErrLoadFailed не удалось загрузить данные
	ErrLoadFailed = errors.New("wizard: failed to load data")

	// ErrSearchFailed поиск не удался
	ErrSearchFailed = errors.New("wizard: search failed")

	// ErrCancelFailed отмена не удалась
	ErrCancelFailed = errors.New("wizard: cancel failed")
)

// Сообщения для пользователя (LastError)
const (
	msgSlotTaken     = "это время только что заняли, выберите другое"
	msgSubmitFailed  = "не удалось оформить запись, попробуйте еще раз"
	msgSubmitTimeout = "сервер не ответил вовремя, попробуйте еще раз"
	msgLoadFailed    = "не удалось загрузить расписание"
	msgSearchFailed  = "не удалось выполнить поиск"
	msgCancelFailed  = "не удалось отменить запись"
)
