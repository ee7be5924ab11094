package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у мастера
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается, когда дата записи в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDayClosed возвращается, когда мастер не работает в этот день недели
	ErrDayClosed = errors.New("create_booking: owner does not work on this day")

	// ErrOutsideHours возвращается, когда визит не помещается в рабочее окно
	ErrOutsideHours = errors.New("create_booking: outside business hours")

	// ErrTooLateToBook возвращается, когда на сегодня осталось меньше 30 минут до начала
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotTaken возвращается, когда время пересекается с активной записью
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
