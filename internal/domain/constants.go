package domain

// Slot grid and same-day lead time, both fixed.
const (
	SlotStepMinutes = 30
	LeadTimeMinutes = 30
)

// Business validation constants
const (
	MaxClientNameLength  = 255
	MaxSearchQueryLength = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// RemovedServiceName отображается вместо названия удаленной услуги
const RemovedServiceName = "Услуга удалена"

// InactiveStatuses статусы, не участвующие в проверке пересечений
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, занимающие время в расписании.
// rescheduled остается активным: запись перенесена, но по-прежнему занимает слот.
var ActiveStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusRescheduled,
}
