package reschedule_booking

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена у мастера
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrAppointmentCancelled возвращается при попытке перенести отмененную запись
	ErrAppointmentCancelled = errors.New("reschedule_booking: appointment is cancelled")

	// ErrServiceNotFound возвращается, когда услуга записи удалена
	ErrServiceNotFound = errors.New("reschedule_booking: service not found")

	// ErrInvalidDate возвращается, когда новая дата в прошлом
	ErrInvalidDate = errors.New("reschedule_booking: invalid date")

	// ErrDayClosed возвращается, когда мастер не работает в этот день недели
	ErrDayClosed = errors.New("reschedule_booking: owner does not work on this day")

	// ErrOutsideHours возвращается, когда визит не помещается в рабочее окно
	ErrOutsideHours = errors.New("reschedule_booking: outside business hours")

	// ErrTooLateToBook возвращается, когда на сегодня осталось меньше 30 минут до начала
	ErrTooLateToBook = errors.New("reschedule_booking: too late to book this slot")

	// ErrSlotTaken возвращается, когда новое время пересекается с другой активной записью
	ErrSlotTaken = errors.New("reschedule_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
