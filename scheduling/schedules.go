package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"agenda-backend/models"
)

// WindowInput describes a schedule window. On update, zero fields keep the
// stored value.
type WindowInput struct {
	ProfessionalID uint
	Date           string
	StartTime      string
	EndTime        string
	Status         string
}

// ScheduleManager persists schedule windows behind the Guard.
type ScheduleManager struct {
	tx     Transactor
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduleManager(tx Transactor, opts ...Option) *ScheduleManager {
	o := buildOptions(opts)
	return &ScheduleManager{tx: tx, guard: NewGuard(opts...), logger: o.logger, now: o.now}
}

func (m *ScheduleManager) CreateWindow(ctx context.Context, in WindowInput) (*models.ScheduleWindow, error) {
	var missing []string
	if in.ProfessionalID == 0 {
		missing = append(missing, "idProfesional")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "fechaHorario")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		missing = append(missing, "horaInicio")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		missing = append(missing, "horaFinal")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}
	if in.Status == "" {
		in.Status = models.ScheduleActive
	}
	w, err := applyWindowInput(&models.ScheduleWindow{}, in)
	if err != nil {
		return nil, err
	}

	err = m.tx.WithinTx(ctx, func(tx TxStore) error {
		if err := lockProfessionals(ctx, tx, w.ProfessionalID); err != nil {
			return err
		}
		regions, err := RemovedRegions(nil, w)
		if err != nil {
			return Classify("schedule regions", err)
		}
		displaced, err := displacedHours(ctx, tx, w, 0)
		if err != nil {
			return err
		}
		regions = append(regions, displaced...)
		if err := m.guard.Check(ctx, tx, regions...); err != nil {
			return err
		}
		return Classify("create schedule window", tx.CreateWindow(ctx, w))
	})
	if err != nil {
		return nil, Classify("create schedule window", err)
	}
	m.logger.Info("schedule window created", "schedule_id", w.ID, "professional_id", w.ProfessionalID, "date", w.Date, "status", w.Status)
	return w, nil
}

// UpdateWindow applies in to the stored window. Deactivating, shrinking or
// moving a window that still holds appointments fails with a ConflictError and
// leaves the window unchanged.
func (m *ScheduleManager) UpdateWindow(ctx context.Context, id uint, in WindowInput) (*models.ScheduleWindow, error) {
	var updated *models.ScheduleWindow
	err := m.tx.WithinTx(ctx, func(tx TxStore) error {
		old, err := tx.FindWindow(ctx, id)
		if err != nil {
			return notFoundOr("find schedule window", "schedule", id, err)
		}
		next, err := applyWindowInput(copyWindow(old), in)
		if err != nil {
			return err
		}
		if err := lockProfessionals(ctx, tx, old.ProfessionalID, next.ProfessionalID); err != nil {
			return err
		}
		regions, err := RemovedRegions(old, next)
		if err != nil {
			return Classify("schedule regions", err)
		}
		displaced, err := displacedHours(ctx, tx, next, old.ID)
		if err != nil {
			return err
		}
		regions = append(regions, displaced...)
		if err := m.guard.Check(ctx, tx, regions...); err != nil {
			return err
		}
		if err := tx.UpdateWindow(ctx, next); err != nil {
			return notFoundOr("update schedule window", "schedule", id, err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, Classify("update schedule window", err)
	}
	m.logger.Info("schedule window updated", "schedule_id", id, "status", updated.Status)
	return updated, nil
}

// DeleteWindow removes a window. Removing an active window that holds
// appointments is refused.
func (m *ScheduleManager) DeleteWindow(ctx context.Context, id uint) error {
	err := m.tx.WithinTx(ctx, func(tx TxStore) error {
		old, err := tx.FindWindow(ctx, id)
		if err != nil {
			return notFoundOr("find schedule window", "schedule", id, err)
		}
		if err := lockProfessionals(ctx, tx, old.ProfessionalID); err != nil {
			return err
		}
		regions, err := RemovedRegions(old, nil)
		if err != nil {
			return Classify("schedule regions", err)
		}
		if err := m.guard.Check(ctx, tx, regions...); err != nil {
			return err
		}
		if err := tx.DeleteWindow(ctx, id); err != nil {
			return notFoundOr("delete schedule window", "schedule", id, err)
		}
		return nil
	})
	if err != nil {
		return Classify("delete schedule window", err)
	}
	m.logger.Info("schedule window deleted", "schedule_id", id)
	return nil
}

// UpdateProfessional locks the professional, applies fn to a copy and saves
// it. When the default working hours lose time, every upcoming date that
// falls back to them must not hold appointments in the lost time.
func (m *ScheduleManager) UpdateProfessional(ctx context.Context, id uint, fn func(p *models.Professional) error) (*models.Professional, error) {
	var updated *models.Professional
	err := m.tx.WithinTx(ctx, func(tx TxStore) error {
		old, err := tx.LockProfessional(ctx, id)
		if err != nil {
			return notFoundOr("lock professional", "professional", id, err)
		}
		next := *old
		if err := fn(&next); err != nil {
			return err
		}
		next.ID = old.ID
		regions, err := m.defaultHoursRegions(ctx, tx, old, &next)
		if err != nil {
			return err
		}
		if err := m.guard.Check(ctx, tx, regions...); err != nil {
			return err
		}
		if err := tx.UpdateProfessional(ctx, &next); err != nil {
			return notFoundOr("update professional", "professional", id, err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, Classify("update professional", err)
	}
	m.logger.Info("professional updated", "professional_id", id)
	return updated, nil
}

// defaultHoursRegions lists the time old's default hours lose in next, on
// each upcoming booked date that has no active window of its own.
func (m *ScheduleManager) defaultHoursRegions(ctx context.Context, tx TxStore, old, next *models.Professional) ([]Region, error) {
	if !old.HasDefaultHours() {
		return nil, nil
	}
	prev, err := ParseInterval(*old.DefaultStart, *old.DefaultEnd)
	if err != nil {
		return nil, Classify("parse default hours", err)
	}
	lost := []Interval{prev}
	if next.HasDefaultHours() {
		cur, err := ParseInterval(*next.DefaultStart, *next.DefaultEnd)
		if err != nil {
			return nil, invalid("horaInicioDefecto", "%v", err)
		}
		lost = subtract(prev, cur)
	}
	if len(lost) == 0 {
		return nil, nil
	}

	dates, err := tx.ListBookedDates(ctx, old.ID, models.DateOf(m.now()))
	if err != nil {
		return nil, Classify("list booked dates", err)
	}
	var regions []Region
	for _, d := range dates {
		_, err := tx.FindActiveWindow(ctx, old.ID, d)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, Classify("find active window", err)
		}
		for _, iv := range lost {
			regions = append(regions, Region{ProfessionalID: old.ID, Date: d, Interval: iv})
		}
	}
	return regions, nil
}

// displacedHours covers an active window that becomes the working hours of
// its date. Only the earliest active window counts, otherwise the default
// hours apply, so the hours it replaces must not hold appointments outside
// it. self is the id of the window being updated, or 0 on create.
func displacedHours(ctx context.Context, tx TxStore, w *models.ScheduleWindow, self uint) ([]Region, error) {
	if !w.IsActive() {
		return nil, nil
	}
	next, err := ParseInterval(w.StartTime, w.EndTime)
	if err != nil {
		return nil, Classify("parse schedule window", err)
	}

	var replaced Interval
	cur, err := tx.FindActiveWindow(ctx, w.ProfessionalID, w.Date)
	switch {
	case err == nil:
		if cur.ID == self {
			return nil, nil
		}
		if replaced, err = ParseInterval(cur.StartTime, cur.EndTime); err != nil {
			return nil, Classify("parse schedule window", err)
		}
		if replaced.Start <= next.Start {
			return nil, nil
		}
	case errors.Is(err, models.ErrNotFound):
		p, err := tx.FindProfessional(ctx, w.ProfessionalID)
		if err != nil {
			return nil, notFoundOr("find professional", "professional", w.ProfessionalID, err)
		}
		if !p.HasDefaultHours() {
			return nil, nil
		}
		if replaced, err = ParseInterval(*p.DefaultStart, *p.DefaultEnd); err != nil {
			return nil, Classify("parse default hours", err)
		}
	default:
		return nil, Classify("find active window", err)
	}

	var regions []Region
	for _, iv := range subtract(replaced, next) {
		regions = append(regions, Region{ProfessionalID: w.ProfessionalID, Date: w.Date, Interval: iv})
	}
	return regions, nil
}

// lockProfessionals locks in ascending id order so concurrent movers cannot deadlock.
func lockProfessionals(ctx context.Context, tx ProfessionalLocker, ids ...uint) error {
	uniq := make([]uint, 0, len(ids))
	seen := make(map[uint]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	for _, id := range uniq {
		if _, err := tx.LockProfessional(ctx, id); err != nil {
			return notFoundOr("lock professional", "professional", id, err)
		}
	}
	return nil
}

func copyWindow(w *models.ScheduleWindow) *models.ScheduleWindow {
	c := *w
	c.Professional = nil
	return &c
}

// applyWindowInput merges in onto w and normalizes times to HH:MM:SS.
func applyWindowInput(w *models.ScheduleWindow, in WindowInput) (*models.ScheduleWindow, error) {
	if in.ProfessionalID != 0 {
		w.ProfessionalID = in.ProfessionalID
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		date, err := models.ParseDate(d)
		if err != nil {
			return nil, invalid("fechaHorario", "%v", err)
		}
		w.Date = date
	}
	if s := strings.TrimSpace(in.StartTime); s != "" {
		if _, err := ParseClock(s); err != nil {
			return nil, invalid("horaInicio", "%v", err)
		}
		w.StartTime = s
	}
	if s := strings.TrimSpace(in.EndTime); s != "" {
		if _, err := ParseClock(s); err != nil {
			return nil, invalid("horaFinal", "%v", err)
		}
		w.EndTime = s
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		if !models.ValidScheduleStatus(s) {
			return nil, invalid("estado", "status must be %q or %q", models.ScheduleActive, models.ScheduleInactive)
		}
		w.Status = s
	}
	iv, err := ParseInterval(w.StartTime, w.EndTime)
	if err != nil {
		return nil, Classify("parse schedule window", err)
	}
	if !iv.Valid() {
		return nil, &ValidationError{Fields: []string{"horaInicio", "horaFinal"}, Msg: "start time must be before end time"}
	}
	w.StartTime, w.EndTime = iv.Start.String(), iv.End.String()
	return w, nil
}
