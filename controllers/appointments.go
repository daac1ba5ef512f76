package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/repository"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

type AppointmentBooker interface {
	CreateAppointment(ctx context.Context, req scheduling.BookingRequest) (*scheduling.Booking, error)
}

type SlotComputer interface {
	ComputeAvailableSlots(ctx context.Context, q scheduling.AvailabilityQuery) ([]scheduling.Interval, error)
}

type AppointmentStore interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	FindAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uint, status string) error
	ListAppointmentDetails(ctx context.Context, f repository.AppointmentFilter) ([]models.AppointmentDetail, error)
	AppointmentStats(ctx context.Context, professionalID uint) (*models.AppointmentStats, error)
}

type AppointmentController struct {
	booker    AppointmentBooker
	allocator SlotComputer
	store     AppointmentStore
	log       *slog.Logger
}

func NewAppointmentController(booker AppointmentBooker, allocator SlotComputer, store AppointmentStore, log *slog.Logger) *AppointmentController {
	return &AppointmentController{booker: booker, allocator: allocator, store: store, log: log}
}

// CreateAppointmentInput is the public booking body. Required fields are
// checked by the booker so the response can list every missing one.
type CreateAppointmentInput struct {
	ClientName      string `json:"nombreCliente"`
	ClientPhone     string `json:"celularCliente"`
	ClientBirthDate string `json:"fechaNacCliente"`
	ProfessionalID  uint   `json:"idProfesional"`
	ServiceID       uint   `json:"idServicios"`
	Date            string `json:"fechaCita"`
	StartTime       string `json:"horaCita"`
	ReferenceNumber string `json:"numeroReferencia"`
}

type AvailabilityInput struct {
	ProfessionalID uint   `json:"idProfesional"`
	Date           string `json:"fechaCita"`
	ServiceID      uint   `json:"idServicios"`
}

type UpdateStatusInput struct {
	Status string `json:"estadoCita" binding:"required,oneof=pendiente confirmada cancelada"`
}

type bookingResponse struct {
	models.Appointment
	VisitHistoryCreated bool  `json:"hvCreada"`
	VisitHistoryID      *uint `json:"idHv,omitempty"`
	ClientCreated       bool  `json:"clienteNuevo"`
}

type slotResponse struct {
	Start   string `json:"horaInicio"`
	End     string `json:"horaFin"`
	Start24 string `json:"horaInicio24"`
}

// CreateAppointment books a slot for a client, creating the client on first visit.
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := ac.booker.CreateAppointment(c.Request.Context(), scheduling.BookingRequest{
		ClientName:      input.ClientName,
		ClientPhone:     input.ClientPhone,
		ClientBirthDate: input.ClientBirthDate,
		ProfessionalID:  input.ProfessionalID,
		ServiceID:       input.ServiceID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		ReferenceNumber: input.ReferenceNumber,
	})
	if err != nil {
		respondWithSchedulingError(c, ac.log, err)
		return
	}

	resp := bookingResponse{
		Appointment:   booking.Appointment,
		ClientCreated: booking.ClientCreated,
	}
	if booking.VisitHistory != nil {
		resp.VisitHistoryCreated = true
		resp.VisitHistoryID = &booking.VisitHistory.ID
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAvailability returns the free slots for a professional, date and service.
func (ac *AppointmentController) GetAvailability(c *gin.Context) {
	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	slots, err := ac.allocator.ComputeAvailableSlots(c.Request.Context(), scheduling.AvailabilityQuery{
		ProfessionalID: input.ProfessionalID,
		ServiceID:      input.ServiceID,
		Date:           input.Date,
	})
	if err != nil {
		respondWithSchedulingError(c, ac.log, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Start:   s.Start.Format12(),
			End:     s.End.Format12(),
			Start24: s.Start.String(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	appts, err := ac.store.ListAppointments(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appt, err := ac.store.FindAppointment(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UpdateStatus moves an appointment pending -> confirmed, or pending|confirmed -> cancelled.
func (ac *AppointmentController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	appt, err := ac.store.FindAppointment(ctx, id)
	if err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}
	if appt.Status == input.Status {
		c.JSON(http.StatusOK, appt)
		return
	}
	if !appt.CanTransition(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot change status from "+appt.Status+" to "+input.Status)
		return
	}
	if err := ac.store.UpdateAppointmentStatus(ctx, id, input.Status); err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}

	ac.log.Info("appointment status changed", "appointment_id", id, "from", appt.Status, "to", input.Status)
	appt.Status = input.Status
	c.JSON(http.StatusOK, appt)
}

// GetAdminAppointments lists every appointment with client, service and professional names.
func (ac *AppointmentController) GetAdminAppointments(c *gin.Context) {
	ac.listDetails(c, repository.AppointmentFilter{})
}

func (ac *AppointmentController) GetProfessionalAppointments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ac.listDetails(c, repository.AppointmentFilter{ProfessionalID: id})
}

func (ac *AppointmentController) GetAppointmentsByDate(c *gin.Context) {
	date, err := models.ParseDate(c.Param("fecha"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	f := repository.AppointmentFilter{Date: date}
	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid id format")
			return
		}
		f.ProfessionalID = uint(id)
	}
	ac.listDetails(c, f)
}

func (ac *AppointmentController) listDetails(c *gin.Context, f repository.AppointmentFilter) {
	rows, err := ac.store.ListAppointmentDetails(c.Request.Context(), f)
	if err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}
	if rows == nil {
		rows = []models.AppointmentDetail{}
	}
	c.JSON(http.StatusOK, rows)
}

// GetStats counts appointments by status; ?id= restricts to one professional.
func (ac *AppointmentController) GetStats(c *gin.Context) {
	var professionalID uint
	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid id format")
			return
		}
		professionalID = uint(id)
	}
	stats, err := ac.store.AppointmentStats(c.Request.Context(), professionalID)
	if err != nil {
		respondWithStoreError(c, ac.log, err, "Appointment")
		return
	}
	c.JSON(http.StatusOK, stats)
}
