package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-backend/models"
)

type countingRecorder struct {
	mu       sync.Mutex
	bookings map[string]int
	guards   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{bookings: map[string]int{}}
}

func (r *countingRecorder) ObserveSlotComputation(string, float64, int) {}

func (r *countingRecorder) ObserveBooking(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[outcome]++
}

func (r *countingRecorder) ObserveGuardRejection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards++
}

func bookingRequest() BookingRequest {
	return BookingRequest{
		ClientName:      "Ana Ruiz",
		ClientPhone:     "3001234567",
		ClientBirthDate: "1990-01-15",
		ProfessionalID:  1,
		ServiceID:       1,
		Date:            testDate,
		StartTime:       "10:00:00",
		ReferenceNumber: "REF-1",
	}
}

func newBookingFixture(t *testing.T, opts ...Option) (*memStore, *Booker) {
	t.Helper()
	store := newMemStore()
	store.addProfessional(1, "", "")
	store.addService(1, 60)
	store.addWindow(1, testDate, "09:00:00", "12:00:00", models.ScheduleActive)
	return store, NewBooker(store, opts...)
}

func TestCreateAppointment_CreatesClientAndComputesEnd(t *testing.T) {
	store, booker := newBookingFixture(t)

	b, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.True(t, b.ClientCreated)
	assert.NotZero(t, b.Client.ID)
	assert.Equal(t, b.Client.ID, b.Appointment.ClientID)
	assert.Equal(t, "10:00:00", b.Appointment.StartTime)
	assert.Equal(t, "11:00:00", b.Appointment.EndTime)
	assert.Equal(t, models.AppointmentPending, b.Appointment.Status)
	require.NotNil(t, b.Appointment.ReferenceNumber)
	assert.Equal(t, "REF-1", *b.Appointment.ReferenceNumber)
	assert.Nil(t, b.VisitHistory)

	assert.Len(t, store.st.clients, 1)
	assert.Len(t, store.st.appointments, 1)
}

func TestCreateAppointment_ReusesExistingClientUntouched(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.st.clients = append(store.st.clients, models.Client{ID: 500, Name: "Original", Phone: "3001234567", BirthDate: "1980-05-05"})

	b, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.False(t, b.ClientCreated)
	assert.Equal(t, uint(500), b.Appointment.ClientID)
	require.Len(t, store.st.clients, 1)
	assert.Equal(t, "Original", store.st.clients[0].Name)
	assert.Equal(t, models.Date("1980-05-05"), store.st.clients[0].BirthDate)
}

func TestCreateAppointment_NormalizesPhoneBeforeLookup(t *testing.T) {
	store, booker := newBookingFixture(t, WithPhoneNormalizer(func(s string) (string, error) {
		return "+57" + s, nil
	}))
	store.st.clients = append(store.st.clients, models.Client{ID: 7, Name: "Ana", Phone: "+573001234567"})

	b, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.Equal(t, uint(7), b.Client.ID)
}

func TestCreateAppointment_MissingFields(t *testing.T) {
	_, booker := newBookingFixture(t)

	_, err := booker.CreateAppointment(context.Background(), BookingRequest{ClientName: "Ana", ServiceID: 1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"celularCliente", "fechaNacCliente", "idProfesional", "fechaCita", "horaCita"}, ve.Fields)
}

func TestCreateAppointment_MalformedFields(t *testing.T) {
	cases := map[string]func(*BookingRequest){
		"fechaCita":       func(r *BookingRequest) { r.Date = "2025/11/15" },
		"fechaNacCliente": func(r *BookingRequest) { r.ClientBirthDate = "15-01-1990" },
		"horaCita":        func(r *BookingRequest) { r.StartTime = "10am" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			_, booker := newBookingFixture(t)
			req := bookingRequest()
			mutate(&req)
			_, err := booker.CreateAppointment(context.Background(), req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, []string{field}, ve.Fields)
		})
	}
}

func TestCreateAppointment_ConflictWithBookedSlotRollsBack(t *testing.T) {
	rec := newCountingRecorder()
	store, booker := newBookingFixture(t, WithRecorder(rec))
	store.addAppointment(1, testDate, "10:30:00", "11:30:00", models.AppointmentConfirmed)

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonSlotUnavailable, ce.Reason)
	require.Len(t, ce.Appointments, 1)
	assert.Equal(t, "10:30:00", ce.Appointments[0].StartTime)

	assert.Empty(t, store.st.clients, "client insert must roll back")
	assert.Len(t, store.st.appointments, 1)
	assert.Equal(t, 1, rec.bookings["conflict"])
}

func TestCreateAppointment_ConflictWithClosure(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.addWindow(1, testDate, "10:45:00", "11:15:00", models.ScheduleInactive)

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonClosedAgenda, ce.Reason)
}

func TestCreateAppointment_AbuttingBookingAllowed(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.addAppointment(1, testDate, "09:00:00", "10:00:00", models.AppointmentPending)
	store.addWindow(1, testDate, "11:00:00", "12:00:00", models.ScheduleInactive)

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	assert.NoError(t, err)
}

func TestCreateAppointment_SecondIdenticalBookingConflicts(t *testing.T) {
	_, booker := newBookingFixture(t)

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.NoError(t, err)

	req := bookingRequest()
	req.ClientPhone = "3119998888"
	_, err = booker.CreateAppointment(context.Background(), req)
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestCreateAppointment_NotFound(t *testing.T) {
	t.Run("professional", func(t *testing.T) {
		_, booker := newBookingFixture(t)
		req := bookingRequest()
		req.ProfessionalID = 9
		_, err := booker.CreateAppointment(context.Background(), req)
		var ne *NotFoundError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, "professional", ne.Entity)
	})
	t.Run("service", func(t *testing.T) {
		store, booker := newBookingFixture(t)
		req := bookingRequest()
		req.ServiceID = 9
		_, err := booker.CreateAppointment(context.Background(), req)
		var ne *NotFoundError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, "service", ne.Entity)
		assert.Empty(t, store.st.clients)
	})
}

func TestCreateAppointment_CrossingMidnightRejected(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.addService(2, 90)
	req := bookingRequest()
	req.ServiceID = 2
	req.StartTime = "23:00:00"

	_, err := booker.CreateAppointment(context.Background(), req)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateAppointment_StorageFailureRollsBack(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.failCreateAppointment = errBoom

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, errBoom))
	assert.Empty(t, store.st.clients)
	assert.Zero(t, store.commits)
}

func TestCreateAppointment_UniqueViolationIsConflict(t *testing.T) {
	store, booker := newBookingFixture(t)
	store.failCreateAppointment = models.ErrDuplicate

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonSlotUnavailable, ce.Reason)
}

func TestCreateAppointment_AutoVisitHistory(t *testing.T) {
	store, booker := newBookingFixture(t, WithAutoVisitHistory(true))

	b, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.NoError(t, err)
	require.NotNil(t, b.VisitHistory)
	assert.Equal(t, b.Appointment.ID, b.VisitHistory.AppointmentID)
	assert.Equal(t, "Corte", b.VisitHistory.ServiceDescription)
	assert.Len(t, store.st.visits, 1)
}

func TestCreateAppointment_AutoVisitHistoryFailureRollsBack(t *testing.T) {
	store, booker := newBookingFixture(t, WithAutoVisitHistory(true))
	store.failCreateVisit = errBoom

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Empty(t, store.st.appointments)
	assert.Empty(t, store.st.clients)
}

func TestCreateAppointment_ConcurrentSameSlot(t *testing.T) {
	rec := newCountingRecorder()
	store, booker := newBookingFixture(t, WithRecorder(rec))

	const n = 8
	store.gate = &sync.WaitGroup{}
	store.gate.Add(n)
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookingRequest()
			if i%2 == 1 {
				req.StartTime = "10:30:00"
			}
			_, errs[i] = booker.CreateAppointment(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		var ce *ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &ce):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, store.st.appointments, 1)
	assert.Equal(t, 1, rec.bookings["created"])
	assert.Len(t, store.st.clients, 1, "the client is created once")
}

func TestCreateAppointment_ReadsCommittedStateAfterLock(t *testing.T) {
	store, booker := newBookingFixture(t)
	ctx := context.Background()

	// A transaction that took its snapshot first must still see a booking
	// committed while it waited for the professional's lock.
	store.lockRow(1)
	store.gate = &sync.WaitGroup{}
	store.gate.Add(1)
	done := make(chan error, 1)
	go func() {
		_, err := booker.CreateAppointment(ctx, bookingRequest())
		done <- err
	}()
	store.gate.Wait()

	store.mu.Lock()
	store.addAppointment(1, testDate, "10:30:00", "11:30:00", models.AppointmentPending)
	store.mu.Unlock()
	store.rows[1].Unlock()

	err := <-done
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonSlotUnavailable, ce.Reason)
}

func TestCreateAppointment_FractionalStoredTimes(t *testing.T) {
	store := newMemStore()
	store.addProfessional(1, "", "")
	store.addService(1, 60)
	store.addWindow(1, testDate, "09:00:00.000000", "12:00:00.000000", models.ScheduleActive)
	store.addAppointment(1, testDate, "10:30:00.000000", "11:30:00.000000", models.AppointmentPending)
	booker := NewBooker(store)

	_, err := booker.CreateAppointment(context.Background(), bookingRequest())
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonSlotUnavailable, ce.Reason)
	require.Len(t, ce.Appointments, 1)

	req := bookingRequest()
	req.StartTime = "09:30:00.000000"
	b, err := booker.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", b.Appointment.StartTime)
	assert.Equal(t, "10:30:00", b.Appointment.EndTime)
}
