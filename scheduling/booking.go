package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"agenda-backend/models"
)

// BookingRequest carries the raw booking fields as received from a client.
type BookingRequest struct {
	ClientName      string
	ClientPhone     string
	ClientBirthDate string
	ProfessionalID  uint
	ServiceID       uint
	Date            string
	StartTime       string
	ReferenceNumber string
}

// Booking is the committed result of CreateAppointment.
type Booking struct {
	Appointment   models.Appointment
	Client        models.Client
	ClientCreated bool
	VisitHistory  *models.VisitHistory
}

// Booker is the transactional write path for appointments.
type Booker struct {
	tx               Transactor
	logger           *slog.Logger
	recorder         Recorder
	autoVisitHistory bool
	normalizePhone   func(string) (string, error)
}

func NewBooker(tx Transactor, opts ...Option) *Booker {
	o := buildOptions(opts)
	return &Booker{
		tx:               tx,
		logger:           o.logger,
		recorder:         o.recorder,
		autoVisitHistory: o.autoVisitHistory,
		normalizePhone:   o.normalizePhone,
	}
}

type bookingInput struct {
	req       BookingRequest
	phone     string
	birthDate models.Date
	date      models.Date
	start     Clock
}

func (b *Booker) validate(req BookingRequest) (*bookingInput, error) {
	var missing []string
	required := []struct {
		field string
		empty bool
	}{
		{"nombreCliente", strings.TrimSpace(req.ClientName) == ""},
		{"celularCliente", strings.TrimSpace(req.ClientPhone) == ""},
		{"fechaNacCliente", strings.TrimSpace(req.ClientBirthDate) == ""},
		{"idProfesional", req.ProfessionalID == 0},
		{"idServicios", req.ServiceID == 0},
		{"fechaCita", strings.TrimSpace(req.Date) == ""},
		{"horaCita", strings.TrimSpace(req.StartTime) == ""},
	}
	for _, r := range required {
		if r.empty {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	in := &bookingInput{req: req}
	var err error
	if in.phone, err = b.normalizePhone(req.ClientPhone); err != nil {
		return nil, invalid("celularCliente", "%v", err)
	}
	if in.birthDate, err = models.ParseDate(strings.TrimSpace(req.ClientBirthDate)); err != nil {
		return nil, invalid("fechaNacCliente", "%v", err)
	}
	if in.date, err = models.ParseDate(strings.TrimSpace(req.Date)); err != nil {
		return nil, invalid("fechaCita", "%v", err)
	}
	if in.start, err = ParseClock(req.StartTime); err != nil {
		return nil, invalid("horaCita", "%v", err)
	}
	return in, nil
}

// CreateAppointment validates the request, then inside one transaction locks the
// professional, resolves or creates the client, computes the end time from the
// service duration, re-checks closures and booked appointments and inserts the
// appointment. Any failure rolls the whole transaction back.
func (b *Booker) CreateAppointment(ctx context.Context, req BookingRequest) (booking *Booking, err error) {
	ctx, span := startSpan(ctx, "scheduling.CreateAppointment", req.ProfessionalID, req.Date)
	defer func() {
		label := outcome(err)
		if label == "ok" {
			label = "created"
		}
		b.recorder.ObserveBooking(label)
		endSpan(span, err)
	}()

	in, err := b.validate(req)
	if err != nil {
		return nil, err
	}

	var out Booking
	err = b.tx.WithinTx(ctx, func(tx TxStore) error {
		if _, err := tx.LockProfessional(ctx, req.ProfessionalID); err != nil {
			return notFoundOr("lock professional", "professional", req.ProfessionalID, err)
		}

		client, created, err := findOrCreateClient(ctx, tx, in)
		if err != nil {
			return err
		}

		duration, svc, err := serviceDuration(ctx, tx, req.ServiceID)
		if err != nil {
			return err
		}
		iv := Interval{Start: in.start, End: in.start.AddMinutes(duration)}
		if iv.End > EndOfDay {
			return invalid("horaCita", "appointment %s would cross midnight", iv)
		}

		closures, err := closedIntervals(ctx, tx, req.ProfessionalID, in.date)
		if err != nil {
			return err
		}
		if overlapsAny(iv, closures) {
			return &ConflictError{Reason: ReasonClosedAgenda}
		}

		booked, err := tx.ListBookedAppointments(ctx, req.ProfessionalID, in.date)
		if err != nil {
			return Classify("list appointments", err)
		}
		hits, err := overlapping(booked, iv)
		if err != nil {
			return err
		}
		if len(hits) > 0 {
			return &ConflictError{Reason: ReasonSlotUnavailable, Appointments: hits}
		}

		appt := models.Appointment{
			ClientID:       client.ID,
			ServiceID:      req.ServiceID,
			ProfessionalID: req.ProfessionalID,
			Date:           in.date,
			StartTime:      iv.Start.String(),
			EndTime:        iv.End.String(),
			Status:         models.AppointmentPending,
		}
		if ref := strings.TrimSpace(req.ReferenceNumber); ref != "" {
			appt.ReferenceNumber = &ref
		}
		if err := tx.CreateAppointment(ctx, &appt); err != nil {
			return Classify("create appointment", err)
		}

		out = Booking{Appointment: appt, Client: *client, ClientCreated: created}
		if b.autoVisitHistory {
			hv := &models.VisitHistory{
				AppointmentID:      appt.ID,
				Description:        "Cita agendada",
				ServiceDescription: svc.Name,
			}
			if err := tx.CreateVisitHistory(ctx, hv); err != nil {
				return Classify("create visit history", err)
			}
			out.VisitHistory = hv
		}
		return nil
	})
	if err != nil {
		err = Classify("create appointment", err)
		var ce *ConflictError
		if errors.As(err, &ce) {
			b.logger.Warn("booking rejected",
				"reason", ce.Reason,
				"professional_id", req.ProfessionalID,
				"date", req.Date,
				"start", req.StartTime,
			)
		}
		return nil, err
	}

	b.logger.Info("appointment created",
		"appointment_id", out.Appointment.ID,
		"client_id", out.Client.ID,
		"client_created", out.ClientCreated,
		"professional_id", out.Appointment.ProfessionalID,
		"date", out.Appointment.Date,
		"start", out.Appointment.StartTime,
		"end", out.Appointment.EndTime,
	)
	return &out, nil
}

// findOrCreateClient never overwrites an existing client's name or birth date.
func findOrCreateClient(ctx context.Context, tx ClientFinderCreator, in *bookingInput) (*models.Client, bool, error) {
	c, err := tx.FindClientByPhone(ctx, in.phone)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, Classify("find client", err)
	}
	c = &models.Client{
		Name:      strings.TrimSpace(in.req.ClientName),
		Phone:     in.phone,
		BirthDate: in.birthDate,
	}
	if err := tx.CreateClient(ctx, c); err != nil {
		return nil, false, &StorageError{Op: "create client", Err: err}
	}
	return c, true, nil
}
