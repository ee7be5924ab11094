package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// WizardStep is the current step of a booking wizard
type WizardStep string

const (
	StepChoosingService     WizardStep = "choosing_service"
	StepChoosingDateAndSlot WizardStep = "choosing_date_and_slot"
	StepConfirmingIdentity  WizardStep = "confirming_identity"
	StepSuccess             WizardStep = "success"
	StepManagingExisting    WizardStep = "managing_existing"
)

// Audience is who drives the wizard
type Audience string

const (
	AudienceOperator Audience = "operator" // the professional books on behalf of a client
	AudiencePublic   Audience = "public"   // the client books through the public link
)

// IsValid reports whether a is a known audience
func (a Audience) IsValid() bool {
	return a == AudienceOperator || a == AudiencePublic
}

// BookingIntent tells whether submit creates a new appointment or moves an existing one
type BookingIntent string

const (
	IntentCreate     BookingIntent = "create"
	IntentReschedule BookingIntent = "reschedule"
)

// OwnerSnapshot is the read-only data a wizard computes slots from
type OwnerSnapshot struct {
	OwnerID      int64         `json:"ownerId"`
	Services     []Service     `json:"services"`
	Hours        WeeklyHours   `json:"hours"`
	Appointments []Appointment `json:"appointments"`
	LoadedAt     time.Time     `json:"loadedAt"`
}

// FindService looks a service up by id
func (s *OwnerSnapshot) FindService(id int64) (*Service, bool) {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i], true
		}
	}
	return nil, false
}

// UpsertAppointment replaces the appointment with the same id or appends it
func (s *OwnerSnapshot) UpsertAppointment(appt Appointment) {
	for i := range s.Appointments {
		if s.Appointments[i].ID == appt.ID {
			s.Appointments[i] = appt
			return
		}
	}
	s.Appointments = append(s.Appointments, appt)
}

// BookingSession is the serializable state of one booking wizard
type BookingSession struct {
	ID       string        `json:"id"`
	OwnerID  int64         `json:"ownerId"`
	Audience Audience      `json:"audience"`
	Step     WizardStep    `json:"step"`
	Intent   BookingIntent `json:"intent"`

	Snapshot *OwnerSnapshot `json:"snapshot,omitempty"`

	ServiceID    int64              `json:"serviceId,omitempty"`
	Date         time.Time          `json:"date"`
	Slots        []types.TimeString `json:"slots"`
	SelectedSlot types.TimeString   `json:"selectedSlot,omitempty"`
	ClientName   string             `json:"clientName,omitempty"`
	RescheduleID int64              `json:"rescheduleId,omitempty"`

	SearchQuery string        `json:"searchQuery,omitempty"`
	Found       []Appointment `json:"found,omitempty"`

	Pending   bool         `json:"pending"`
	LastError string       `json:"lastError,omitempty"`
	Result    *Appointment `json:"result,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
