package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"agenda-backend/models"
)

// AvailabilityQuery asks for the free slots of a professional on a date for a service.
type AvailabilityQuery struct {
	ProfessionalID uint
	ServiceID      uint
	Date           string
}

// Allocator computes bookable slots. It holds no state between calls.
type Allocator struct {
	store    SlotSource
	logger   *slog.Logger
	recorder Recorder
}

func NewAllocator(store SlotSource, opts ...Option) *Allocator {
	o := buildOptions(opts)
	return &Allocator{store: store, logger: o.logger, recorder: o.recorder}
}

// ComputeAvailableSlots walks the working-hours window in steps of the service
// duration and returns the candidates that hit neither a closure nor a booked
// appointment. The result is ordered by start time and may be empty.
func (a *Allocator) ComputeAvailableSlots(ctx context.Context, q AvailabilityQuery) (slots []Interval, err error) {
	ctx, span := startSpan(ctx, "scheduling.ComputeAvailableSlots", q.ProfessionalID, q.Date)
	begin := time.Now()
	defer func() {
		a.recorder.ObserveSlotComputation(outcome(err), time.Since(begin).Seconds(), len(slots))
		endSpan(span, err)
	}()

	var missing []string
	if q.ProfessionalID == 0 {
		missing = append(missing, "idProfesional")
	}
	if q.Date == "" {
		missing = append(missing, "fechaCita")
	}
	if q.ServiceID == 0 {
		missing = append(missing, "idServicios")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}
	date, err := models.ParseDate(q.Date)
	if err != nil {
		return nil, invalid("fechaCita", "%v", err)
	}

	window, err := resolveWorkingHours(ctx, a.store, q.ProfessionalID, date)
	if err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, &ValidationError{Msg: "working hours start must be before end: " + window.String()}
	}

	duration, _, err := serviceDuration(ctx, a.store, q.ServiceID)
	if err != nil {
		return nil, err
	}

	closures, err := closedIntervals(ctx, a.store, q.ProfessionalID, date)
	if err != nil {
		return nil, err
	}
	booked, err := a.store.ListBookedAppointments(ctx, q.ProfessionalID, date)
	if err != nil {
		return nil, Classify("list appointments", err)
	}
	bookedIntervals, err := appointmentIntervals(booked)
	if err != nil {
		return nil, err
	}

	slots = FreeSlots(window, duration, closures, bookedIntervals)
	a.logger.Debug("slots computed",
		"professional_id", q.ProfessionalID,
		"date", date,
		"window", window.String(),
		"duration_min", duration,
		"free", len(slots),
	)
	return slots, nil
}

// FreeSlots is the pure slot walk. Slots are aligned to the window start and
// never sub-divided to fill gaps.
func FreeSlots(window Interval, durationMin int, blocked ...[]Interval) []Interval {
	slots := []Interval{}
	if durationMin <= 0 {
		return slots
	}
	for cursor := window.Start; ; cursor = cursor.AddMinutes(durationMin) {
		candidate := Interval{Start: cursor, End: cursor.AddMinutes(durationMin)}
		if candidate.End > window.End {
			break
		}
		if overlapsAny(candidate, blocked...) {
			continue
		}
		slots = append(slots, candidate)
	}
	return slots
}

func overlapsAny(candidate Interval, sets ...[]Interval) bool {
	for _, set := range sets {
		for _, b := range set {
			if candidate.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

// resolveWorkingHours prefers an explicit active window and falls back to the
// professional's default hours.
func resolveWorkingHours(ctx context.Context, store SlotSource, professionalID uint, date models.Date) (Interval, error) {
	w, err := store.FindActiveWindow(ctx, professionalID, date)
	if err == nil {
		iv, perr := ParseInterval(w.StartTime, w.EndTime)
		if perr != nil {
			return Interval{}, Classify("parse schedule window", perr)
		}
		return iv, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return Interval{}, Classify("find schedule window", err)
	}

	p, err := store.FindProfessional(ctx, professionalID)
	if err != nil {
		return Interval{}, notFoundOr("find professional", "professional", professionalID, err)
	}
	if !p.HasDefaultHours() {
		return Interval{}, &NotFoundError{Entity: "working hours for professional", ID: professionalID}
	}
	iv, err := ParseInterval(*p.DefaultStart, *p.DefaultEnd)
	if err != nil {
		return Interval{}, Classify("parse default hours", err)
	}
	return iv, nil
}

func serviceDuration(ctx context.Context, store ServiceReader, serviceID uint) (int, *models.Service, error) {
	svc, err := store.FindService(ctx, serviceID)
	if err != nil {
		return 0, nil, notFoundOr("find service", "service", serviceID, err)
	}
	if svc.DurationMinutes <= 0 {
		return 0, nil, invalid("servDuracion", "service %d has non-positive duration %d", serviceID, svc.DurationMinutes)
	}
	return svc.DurationMinutes, svc, nil
}

func closedIntervals(ctx context.Context, store ScheduleReader, professionalID uint, date models.Date) ([]Interval, error) {
	rows, err := store.ListInactiveWindows(ctx, professionalID, date)
	if err != nil {
		return nil, Classify("list inactive windows", err)
	}
	out := make([]Interval, 0, len(rows))
	for _, r := range rows {
		iv, err := ParseInterval(r.StartTime, r.EndTime)
		if err != nil {
			return nil, Classify("parse inactive window", err)
		}
		out = append(out, iv)
	}
	return out, nil
}

func appointmentIntervals(rows []models.Appointment) ([]Interval, error) {
	out := make([]Interval, 0, len(rows))
	for _, r := range rows {
		iv, err := ParseInterval(r.StartTime, r.EndTime)
		if err != nil {
			return nil, Classify("parse appointment", err)
		}
		out = append(out, iv)
	}
	return out, nil
}

// overlapping returns the appointments in rows that intersect iv.
func overlapping(rows []models.Appointment, iv Interval) ([]models.Appointment, error) {
	var hits []models.Appointment
	for _, r := range rows {
		other, err := ParseInterval(r.StartTime, r.EndTime)
		if err != nil {
			return nil, Classify("parse appointment", err)
		}
		if iv.Overlaps(other) {
			hits = append(hits, r)
		}
	}
	return hits, nil
}
