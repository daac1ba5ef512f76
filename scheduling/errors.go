package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"agenda-backend/models"
)

const (
	ReasonClosedAgenda     = "closed agenda"
	ReasonSlotUnavailable  = "slot unavailable"
	ReasonAppointmentsHeld = "schedule has appointments in the affected range"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 && e.Msg == "" {
		return "missing required fields: " + strings.Join(e.Fields, ", ")
	}
	if len(e.Fields) > 0 {
		return e.Msg + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Msg
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Fields: []string{field}, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError reports a collision with a closed window or an existing
// appointment. Appointments lists the colliding rows when known.
type ConflictError struct {
	Reason       string
	Appointments []models.Appointment
}

func (e *ConflictError) Error() string {
	if len(e.Appointments) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (%d conflicting appointments)", e.Reason, len(e.Appointments))
}

// StorageError wraps a data-store failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// Classify returns err unchanged when it already belongs to the taxonomy,
// maps repository sentinels, and wraps everything else as a StorageError.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ne *NotFoundError
		ce *ConflictError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ne), errors.As(err, &ce), errors.As(err, &se):
		return err
	case errors.Is(err, models.ErrDuplicate):
		return &ConflictError{Reason: ReasonSlotUnavailable}
	}
	return &StorageError{Op: op, Err: err}
}

// notFoundOr maps models.ErrNotFound to a NotFoundError and classifies anything else.
func notFoundOr(op, entity string, id interface{}, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return Classify(op, err)
}
