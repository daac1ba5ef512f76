package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-backend/models"
	"agenda-backend/repository"
	"agenda-backend/scheduling"
)

type fakeBooker struct {
	got     scheduling.BookingRequest
	booking *scheduling.Booking
	err     error
}

func (f *fakeBooker) CreateAppointment(_ context.Context, req scheduling.BookingRequest) (*scheduling.Booking, error) {
	f.got = req
	return f.booking, f.err
}

type fakeSlots struct {
	slots []scheduling.Interval
	err   error
}

func (f *fakeSlots) ComputeAvailableSlots(context.Context, scheduling.AvailabilityQuery) ([]scheduling.Interval, error) {
	return f.slots, f.err
}

type fakeAppointmentStore struct {
	appts   map[uint]*models.Appointment
	updated map[uint]string
	filter  repository.AppointmentFilter
	details []models.AppointmentDetail
}

func (f *fakeAppointmentStore) ListAppointments(context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentStore) UpdateAppointmentStatus(_ context.Context, id uint, status string) error {
	if f.updated == nil {
		f.updated = map[uint]string{}
	}
	f.updated[id] = status
	return nil
}

func (f *fakeAppointmentStore) ListAppointmentDetails(_ context.Context, filter repository.AppointmentFilter) ([]models.AppointmentDetail, error) {
	f.filter = filter
	return f.details, nil
}

func (f *fakeAppointmentStore) AppointmentStats(_ context.Context, professionalID uint) (*models.AppointmentStats, error) {
	return &models.AppointmentStats{Total: int64(professionalID) + 3, Pending: 1, Confirmed: 1, Cancelled: 1}, nil
}

func newAppointmentRouter(b AppointmentBooker, s SlotComputer, store AppointmentStore) *gin.Engine {
	ac := NewAppointmentController(b, s, store, discardLogger())
	r := gin.New()
	r.POST("/citas", ac.CreateAppointment)
	r.POST("/citas/disponibilidad", ac.GetAvailability)
	r.GET("/citas/:id", ac.GetAppointment)
	r.PATCH("/citas/:id/estado", ac.UpdateStatus)
	r.GET("/citas-profesional/fecha/:fecha", ac.GetAppointmentsByDate)
	r.GET("/citas-profesional/stats", ac.GetStats)
	return r
}

const bookingBody = `{"nombreCliente":"Ana","celularCliente":"3001112233","fechaNacCliente":"1990-05-01",
	"idProfesional":1,"idServicios":2,"fechaCita":"2025-11-15","horaCita":"10:00"}`

func TestCreateAppointment_Created(t *testing.T) {
	booker := &fakeBooker{booking: &scheduling.Booking{
		Appointment: models.Appointment{
			ID: 7, ClientID: 3, ServiceID: 2, ProfessionalID: 1,
			Date: "2025-11-15", StartTime: "10:00:00", EndTime: "11:00:00", Status: models.AppointmentPending,
		},
		ClientCreated: true,
		VisitHistory:  &models.VisitHistory{ID: 9, AppointmentID: 7},
	}}
	r := newAppointmentRouter(booker, &fakeSlots{}, &fakeAppointmentStore{})

	rec := doJSON(r, http.MethodPost, "/citas", bookingBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(7), body["idCita"])
	assert.Equal(t, "11:00:00", body["finCita"])
	assert.Equal(t, true, body["hvCreada"])
	assert.Equal(t, float64(9), body["idHv"])
	assert.Equal(t, true, body["clienteNuevo"])

	assert.Equal(t, "Ana", booker.got.ClientName)
	assert.Equal(t, uint(2), booker.got.ServiceID)
	assert.Equal(t, "10:00", booker.got.StartTime)
}

func TestCreateAppointment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &scheduling.ValidationError{Fields: []string{"horaCita"}}, http.StatusBadRequest, "missing required fields: horaCita"},
		{"not found", &scheduling.NotFoundError{Entity: "service", ID: uint(2)}, http.StatusNotFound, "service 2 not found"},
		{"closed", &scheduling.ConflictError{Reason: scheduling.ReasonClosedAgenda}, http.StatusBadRequest, "closed agenda"},
		{"storage", &scheduling.StorageError{Op: "create appointment", Err: errors.New("boom")}, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAppointmentRouter(&fakeBooker{err: tt.err}, &fakeSlots{}, &fakeAppointmentStore{})
			rec := doJSON(r, http.MethodPost, "/citas", bookingBody)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]interface{}
			decodeBody(t, rec, &body)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestCreateAppointment_ConflictListsAppointments(t *testing.T) {
	err := &scheduling.ConflictError{
		Reason:       scheduling.ReasonSlotUnavailable,
		Appointments: []models.Appointment{{ID: 4, StartTime: "09:30:00", EndTime: "10:30:00"}},
	}
	r := newAppointmentRouter(&fakeBooker{err: err}, &fakeSlots{}, &fakeAppointmentStore{})

	rec := doJSON(r, http.MethodPost, "/citas", bookingBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error     string               `json:"error"`
		Conflicts []models.Appointment `json:"conflicts"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "slot unavailable", body.Error)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, uint(4), body.Conflicts[0].ID)
}

func TestCreateAppointment_MalformedJSON(t *testing.T) {
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, &fakeAppointmentStore{})
	rec := doJSON(r, http.MethodPost, "/citas", `{"idProfesional":"uno"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailability(t *testing.T) {
	start, _ := scheduling.ParseClock("09:00")
	slots := []scheduling.Interval{
		{Start: start, End: start.AddMinutes(60)},
		{Start: start.AddMinutes(240), End: start.AddMinutes(300)},
	}
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{slots: slots}, &fakeAppointmentStore{})

	rec := doJSON(r, http.MethodPost, "/citas/disponibilidad", `{"idProfesional":1,"fechaCita":"2025-11-15","idServicios":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []slotResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, []slotResponse{
		{Start: "09:00 AM", End: "10:00 AM", Start24: "09:00:00"},
		{Start: "01:00 PM", End: "02:00 PM", Start24: "13:00:00"},
	}, body)
}

func TestGetAvailability_EmptyIsArray(t *testing.T) {
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, &fakeAppointmentStore{})

	rec := doJSON(r, http.MethodPost, "/citas/disponibilidad", `{"idProfesional":1,"fechaCita":"2025-11-15","idServicios":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		status int
	}{
		{"confirm pending", models.AppointmentPending, models.AppointmentConfirmed, http.StatusOK},
		{"cancel confirmed", models.AppointmentConfirmed, models.AppointmentCancelled, http.StatusOK},
		{"reopen cancelled", models.AppointmentCancelled, models.AppointmentPending, http.StatusBadRequest},
		{"unconfirm", models.AppointmentConfirmed, models.AppointmentPending, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAppointmentStore{appts: map[uint]*models.Appointment{1: {ID: 1, Status: tt.from}}}
			r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, store)

			rec := doJSON(r, http.MethodPatch, "/citas/1/estado", `{"estadoCita":"`+tt.to+`"}`)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.to, store.updated[1])
			} else {
				assert.Empty(t, store.updated)
			}
		})
	}
}

func TestUpdateStatus_UnknownStatusAndMissing(t *testing.T) {
	store := &fakeAppointmentStore{appts: map[uint]*models.Appointment{}}
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, store)

	rec := doJSON(r, http.MethodPatch, "/citas/1/estado", `{"estadoCita":"archivada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPatch, "/citas/1/estado", `{"estadoCita":"confirmada"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(r, http.MethodPatch, "/citas/abc/estado", `{"estadoCita":"confirmada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAppointmentsByDate(t *testing.T) {
	store := &fakeAppointmentStore{}
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, store)

	rec := doJSON(r, http.MethodGet, "/citas-profesional/fecha/2025-11-15?id=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, repository.AppointmentFilter{ProfessionalID: 4, Date: "2025-11-15"}, store.filter)

	rec = doJSON(r, http.MethodGet, "/citas-profesional/fecha/15-11-2025", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	r := newAppointmentRouter(&fakeBooker{}, &fakeSlots{}, &fakeAppointmentStore{})

	rec := doJSON(r, http.MethodGet, "/citas-profesional/stats?id=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalCitas":5,"citasPendientes":1,"citasConfirmadas":1,"citasCanceladas":1}`, rec.Body.String())

	rec = doJSON(r, http.MethodGet, "/citas-profesional/stats?id=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
