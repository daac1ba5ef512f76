package scheduling

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"agenda-backend/models"
)

// memState is an in-memory stand-in for the database.
type memState struct {
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	clients       []models.Client
	windows       []models.ScheduleWindow
	appointments  []models.Appointment
	visits        []models.VisitHistory
	seq           *atomic.Uint64
}

func (s *memState) clone() *memState {
	c := &memState{
		professionals: make(map[uint]models.Professional, len(s.professionals)),
		services:      make(map[uint]models.Service, len(s.services)),
		clients:       append([]models.Client(nil), s.clients...),
		windows:       append([]models.ScheduleWindow(nil), s.windows...),
		appointments:  append([]models.Appointment(nil), s.appointments...),
		visits:        append([]models.VisitHistory(nil), s.visits...),
		seq:           s.seq,
	}
	for k, v := range s.professionals {
		c.professionals[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	return c
}

// id is shared by every clone so concurrent transactions never reuse one.
func (s *memState) id() uint {
	return uint(s.seq.Add(1))
}

// memOp is one write, replayed onto the committed state at commit.
type memOp func(st *memState) error

// memView implements TxStore over one memState. Inside a transaction it
// works on a private snapshot and records its writes for replay.
type memView struct {
	st    *memState
	store *memStore
	ops   []memOp
	held  map[uint]bool

	failCreateAppointment error
	failCreateVisit       error
	failListInactive      error
}

func (v *memView) apply(op memOp) error {
	if err := op(v.st); err != nil {
		return err
	}
	v.ops = append(v.ops, op)
	return nil
}

func (v *memView) FindActiveWindow(_ context.Context, professionalID uint, date models.Date) (*models.ScheduleWindow, error) {
	var found []models.ScheduleWindow
	for _, w := range v.st.windows {
		if w.ProfessionalID == professionalID && w.Date == date && w.IsActive() {
			found = append(found, w)
		}
	}
	if len(found) == 0 {
		return nil, models.ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool { return found[i].StartTime < found[j].StartTime })
	return &found[0], nil
}

func (v *memView) ListInactiveWindows(_ context.Context, professionalID uint, date models.Date) ([]models.ScheduleWindow, error) {
	if v.failListInactive != nil {
		return nil, v.failListInactive
	}
	var out []models.ScheduleWindow
	for _, w := range v.st.windows {
		if w.ProfessionalID == professionalID && w.Date == date && !w.IsActive() {
			out = append(out, w)
		}
	}
	return out, nil
}

func (v *memView) FindWindow(_ context.Context, id uint) (*models.ScheduleWindow, error) {
	for _, w := range v.st.windows {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, models.ErrNotFound
}

func (v *memView) CreateWindow(_ context.Context, w *models.ScheduleWindow) error {
	w.ID = v.st.id()
	row := *w
	return v.apply(func(st *memState) error {
		st.windows = append(st.windows, row)
		return nil
	})
}

func (v *memView) UpdateWindow(_ context.Context, w *models.ScheduleWindow) error {
	row := *w
	return v.apply(func(st *memState) error {
		for i := range st.windows {
			if st.windows[i].ID == row.ID {
				st.windows[i] = row
				return nil
			}
		}
		return models.ErrNotFound
	})
}

func (v *memView) DeleteWindow(_ context.Context, id uint) error {
	return v.apply(func(st *memState) error {
		for i := range st.windows {
			if st.windows[i].ID == id {
				st.windows = append(st.windows[:i:i], st.windows[i+1:]...)
				return nil
			}
		}
		return models.ErrNotFound
	})
}

func (v *memView) FindProfessional(_ context.Context, id uint) (*models.Professional, error) {
	p, ok := v.st.professionals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

// LockProfessional holds the professional's mutex until the transaction ends
// and then reads committed state, as a row lock under READ COMMITTED does.
func (v *memView) LockProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	if v.store != nil && !v.held[id] {
		v.store.lockRow(id)
		v.held[id] = true
		if err := v.store.refresh(v); err != nil {
			return nil, err
		}
	}
	return v.FindProfessional(ctx, id)
}

func (v *memView) UpdateProfessional(_ context.Context, p *models.Professional) error {
	row := *p
	return v.apply(func(st *memState) error {
		if _, ok := st.professionals[row.ID]; !ok {
			return models.ErrNotFound
		}
		st.professionals[row.ID] = row
		return nil
	})
}

func (v *memView) FindService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := v.st.services[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (v *memView) ListBookedAppointments(_ context.Context, professionalID uint, date models.Date) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range v.st.appointments {
		if a.ProfessionalID == professionalID && a.Date == date && a.Status != models.AppointmentCancelled {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (v *memView) ListBookedDates(_ context.Context, professionalID uint, from models.Date) ([]models.Date, error) {
	seen := map[models.Date]bool{}
	var out []models.Date
	for _, a := range v.st.appointments {
		if a.ProfessionalID == professionalID && a.Date >= from && a.Status != models.AppointmentCancelled && !seen[a.Date] {
			seen[a.Date] = true
			out = append(out, a.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// CreateAppointment enforces the partial unique index on the slot start, both
// here and again when the write is replayed at commit.
func (v *memView) CreateAppointment(_ context.Context, a *models.Appointment) error {
	if v.failCreateAppointment != nil {
		return v.failCreateAppointment
	}
	a.ID = v.st.id()
	row := *a
	return v.apply(func(st *memState) error {
		for _, b := range st.appointments {
			if b.ProfessionalID == row.ProfessionalID && b.Date == row.Date && b.StartTime == row.StartTime && b.Status != models.AppointmentCancelled {
				return models.ErrDuplicate
			}
		}
		st.appointments = append(st.appointments, row)
		return nil
	})
}

func (v *memView) FindClientByPhone(_ context.Context, phone string) (*models.Client, error) {
	for _, c := range v.st.clients {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (v *memView) CreateClient(_ context.Context, c *models.Client) error {
	c.ID = v.st.id()
	row := *c
	return v.apply(func(st *memState) error {
		st.clients = append(st.clients, row)
		return nil
	})
}

func (v *memView) CreateVisitHistory(_ context.Context, hv *models.VisitHistory) error {
	if v.failCreateVisit != nil {
		return v.failCreateVisit
	}
	hv.ID = v.st.id()
	row := *hv
	return v.apply(func(st *memState) error {
		st.visits = append(st.visits, row)
		return nil
	})
}

// memStore runs transactions concurrently. Each one snapshots the committed
// state, row locks are per professional and held until the transaction ends,
// and a commit replays the recorded writes onto the latest committed state.
type memStore struct {
	*memView
	mu      sync.Mutex
	rows    map[uint]*sync.Mutex
	commits int

	// gate, when set, holds every transaction after its snapshot until
	// gate.Wait returns, so all of them start from the same state.
	gate *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{
		memView: &memView{st: &memState{
			professionals: map[uint]models.Professional{},
			services:      map[uint]models.Service{},
			seq:           new(atomic.Uint64),
		}},
		rows: map[uint]*sync.Mutex{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx TxStore) error) error {
	m.mu.Lock()
	view := &memView{
		st:                    m.st.clone(),
		store:                 m,
		held:                  map[uint]bool{},
		failCreateAppointment: m.failCreateAppointment,
		failCreateVisit:       m.failCreateVisit,
		failListInactive:      m.failListInactive,
	}
	m.mu.Unlock()
	defer m.unlockRows(view)

	if m.gate != nil {
		m.gate.Done()
		m.gate.Wait()
	}
	if err := fn(view); err != nil {
		return err
	}
	return m.commit(view)
}

func (m *memStore) lockRow(id uint) {
	m.mu.Lock()
	row, ok := m.rows[id]
	if !ok {
		row = &sync.Mutex{}
		m.rows[id] = row
	}
	m.mu.Unlock()
	row.Lock()
}

func (m *memStore) unlockRows(v *memView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range v.held {
		m.rows[id].Unlock()
	}
}

// refresh rebuilds v from the latest committed state plus its own writes.
func (m *memStore) refresh(v *memView) error {
	m.mu.Lock()
	st := m.st.clone()
	m.mu.Unlock()
	for _, op := range v.ops {
		if err := op(st); err != nil {
			return err
		}
	}
	v.st = st
	return nil
}

func (m *memStore) commit(v *memView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.st.clone()
	for _, op := range v.ops {
		if err := op(st); err != nil {
			return err
		}
	}
	m.st = st
	m.commits++
	return nil
}

func strPtr(s string) *string { return &s }

func (m *memStore) addProfessional(id uint, defStart, defEnd string) {
	p := models.Professional{ID: id, Name: "Pro"}
	if defStart != "" {
		p.DefaultStart = strPtr(defStart)
		p.DefaultEnd = strPtr(defEnd)
	}
	m.st.professionals[id] = p
}

func (m *memStore) addService(id uint, minutes int) {
	m.st.services[id] = models.Service{ID: id, Name: "Corte", DurationMinutes: minutes}
}

func (m *memStore) addWindow(professionalID uint, date, start, end, status string) uint {
	id := m.st.id()
	m.st.windows = append(m.st.windows, models.ScheduleWindow{
		ID: id, ProfessionalID: professionalID, Date: models.Date(date),
		StartTime: start, EndTime: end, Status: status,
	})
	return id
}

func (m *memStore) addAppointment(professionalID uint, date, start, end, status string) uint {
	id := m.st.id()
	m.st.appointments = append(m.st.appointments, models.Appointment{
		ID: id, ProfessionalID: professionalID, ClientID: 99, ServiceID: 1,
		Date: models.Date(date), StartTime: start, EndTime: end, Status: status,
	})
	return id
}

var errBoom = errors.New("connection reset")
