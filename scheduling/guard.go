package scheduling

import (
	"context"
	"log/slog"
	"sort"

	"agenda-backend/models"
)

// Region is a time range on one professional's agenda that a schedule
// mutation would take out of availability.
type Region struct {
	ProfessionalID uint
	Date           models.Date
	Interval       Interval
}

// Guard refuses schedule mutations that would orphan booked appointments.
// It must run inside the transaction that performs the mutation.
type Guard struct {
	logger   *slog.Logger
	recorder Recorder
}

func NewGuard(opts ...Option) *Guard {
	o := buildOptions(opts)
	return &Guard{logger: o.logger, recorder: o.recorder}
}

// GuardDeactivation checks a single removed range.
func (g *Guard) GuardDeactivation(ctx context.Context, tx AppointmentReader, professionalID uint, date models.Date, newStart, newEnd Clock) error {
	return g.Check(ctx, tx, Region{ProfessionalID: professionalID, Date: date, Interval: Interval{Start: newStart, End: newEnd}})
}

// Check returns a ConflictError listing every non-cancelled appointment that
// overlaps any of the regions.
func (g *Guard) Check(ctx context.Context, tx AppointmentReader, regions ...Region) error {
	seen := make(map[uint]bool)
	var conflicts []models.Appointment
	for _, r := range regions {
		if !r.Interval.Valid() {
			continue
		}
		booked, err := tx.ListBookedAppointments(ctx, r.ProfessionalID, r.Date)
		if err != nil {
			return Classify("list appointments", err)
		}
		hits, err := overlapping(booked, r.Interval)
		if err != nil {
			return err
		}
		for _, h := range hits {
			if !seen[h.ID] {
				seen[h.ID] = true
				conflicts = append(conflicts, h)
			}
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Date != conflicts[j].Date {
			return conflicts[i].Date < conflicts[j].Date
		}
		return conflicts[i].StartTime < conflicts[j].StartTime
	})
	g.recorder.ObserveGuardRejection()
	g.logger.Warn("schedule mutation rejected", "conflicts", len(conflicts))
	return &ConflictError{Reason: ReasonAppointmentsHeld, Appointments: conflicts}
}

// RemovedRegions computes what a change from old to updated takes away.
// An inactive window blocks its whole interval. An active window that shrinks
// loses its trimmed edges; one that moves to another professional or date
// loses everything. Either argument may be nil for create and delete.
func RemovedRegions(old, updated *models.ScheduleWindow) ([]Region, error) {
	var regions []Region
	if updated != nil && !updated.IsActive() {
		iv, err := ParseInterval(updated.StartTime, updated.EndTime)
		if err != nil {
			return nil, err
		}
		regions = append(regions, Region{ProfessionalID: updated.ProfessionalID, Date: updated.Date, Interval: iv})
	}
	if old == nil || !old.IsActive() {
		return regions, nil
	}

	prev, err := ParseInterval(old.StartTime, old.EndTime)
	if err != nil {
		return nil, err
	}
	if updated == nil || !updated.IsActive() ||
		updated.ProfessionalID != old.ProfessionalID || updated.Date != old.Date {
		return append(regions, Region{ProfessionalID: old.ProfessionalID, Date: old.Date, Interval: prev}), nil
	}

	next, err := ParseInterval(updated.StartTime, updated.EndTime)
	if err != nil {
		return nil, err
	}
	for _, iv := range subtract(prev, next) {
		regions = append(regions, Region{old.ProfessionalID, old.Date, iv})
	}
	return regions, nil
}

// subtract returns the parts of a not covered by b.
func subtract(a, b Interval) []Interval {
	if !a.Overlaps(b) {
		return []Interval{a}
	}
	var out []Interval
	if b.Start > a.Start {
		out = append(out, Interval{a.Start, b.Start})
	}
	if b.End < a.End {
		out = append(out, Interval{b.End, a.End})
	}
	return out
}
