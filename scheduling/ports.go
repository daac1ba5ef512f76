package scheduling

import (
	"context"

	"agenda-backend/models"
)

// Repositories return models.ErrNotFound for missing rows and
// models.ErrDuplicate for unique violations.

type ScheduleReader interface {
	// FindActiveWindow returns the earliest active window for the date.
	FindActiveWindow(ctx context.Context, professionalID uint, date models.Date) (*models.ScheduleWindow, error)
	ListInactiveWindows(ctx context.Context, professionalID uint, date models.Date) ([]models.ScheduleWindow, error)
}

type ScheduleWriter interface {
	FindWindow(ctx context.Context, id uint) (*models.ScheduleWindow, error)
	CreateWindow(ctx context.Context, w *models.ScheduleWindow) error
	UpdateWindow(ctx context.Context, w *models.ScheduleWindow) error
	DeleteWindow(ctx context.Context, id uint) error
}

type ProfessionalReader interface {
	FindProfessional(ctx context.Context, id uint) (*models.Professional, error)
}

// ProfessionalLocker takes a row lock on the professional for the rest of the
// transaction, serializing writers that touch the same agenda.
type ProfessionalLocker interface {
	LockProfessional(ctx context.Context, id uint) (*models.Professional, error)
}

type ProfessionalWriter interface {
	UpdateProfessional(ctx context.Context, p *models.Professional) error
}

type ServiceReader interface {
	FindService(ctx context.Context, id uint) (*models.Service, error)
}

type AppointmentReader interface {
	// ListBookedAppointments returns non-cancelled appointments ordered by start time.
	ListBookedAppointments(ctx context.Context, professionalID uint, date models.Date) ([]models.Appointment, error)
}

// BookedDateLister finds the dates that still hold appointments.
type BookedDateLister interface {
	// ListBookedDates returns distinct dates on or after from with
	// non-cancelled appointments, in ascending order.
	ListBookedDates(ctx context.Context, professionalID uint, from models.Date) ([]models.Date, error)
}

type AppointmentWriter interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
}

type ClientFinderCreator interface {
	FindClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
}

type VisitHistoryWriter interface {
	CreateVisitHistory(ctx context.Context, hv *models.VisitHistory) error
}

// SlotSource is everything the allocator reads.
type SlotSource interface {
	ScheduleReader
	ProfessionalReader
	ServiceReader
	AppointmentReader
}

// TxStore is the view of the store bound to one transaction.
type TxStore interface {
	SlotSource
	ScheduleWriter
	ProfessionalLocker
	ProfessionalWriter
	BookedDateLister
	AppointmentWriter
	ClientFinderCreator
	VisitHistoryWriter
}

// Transactor runs fn inside one transaction. A non-nil error from fn rolls
// the transaction back and is returned unchanged.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx TxStore) error) error
}
