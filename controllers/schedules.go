package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

type ScheduleMutator interface {
	CreateWindow(ctx context.Context, in scheduling.WindowInput) (*models.ScheduleWindow, error)
	UpdateWindow(ctx context.Context, id uint, in scheduling.WindowInput) (*models.ScheduleWindow, error)
	DeleteWindow(ctx context.Context, id uint) error
}

type ScheduleStore interface {
	ListWindows(ctx context.Context) ([]models.ScheduleWindow, error)
	ListWindowsByProfessional(ctx context.Context, professionalID uint) ([]models.ScheduleWindow, error)
	FindWindow(ctx context.Context, id uint) (*models.ScheduleWindow, error)
}

type ScheduleController struct {
	manager ScheduleMutator
	store   ScheduleStore
	log     *slog.Logger
}

func NewScheduleController(manager ScheduleMutator, store ScheduleStore, log *slog.Logger) *ScheduleController {
	return &ScheduleController{manager: manager, store: store, log: log}
}

// ScheduleInput is shared by create and update. On update, omitted fields keep their value.
type ScheduleInput struct {
	ProfessionalID uint   `json:"idProfesional"`
	Date           string `json:"fechaHorario"`
	StartTime      string `json:"horaInicio"`
	EndTime        string `json:"horaFinal"`
	Status         string `json:"estado"`
}

func (in ScheduleInput) window() scheduling.WindowInput {
	return scheduling.WindowInput{
		ProfessionalID: in.ProfessionalID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         in.Status,
	}
}

func (sc *ScheduleController) GetSchedules(c *gin.Context) {
	rows, err := sc.store.ListWindows(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Schedule")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (sc *ScheduleController) GetSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	w, err := sc.store.FindWindow(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Schedule")
		return
	}
	c.JSON(http.StatusOK, w)
}

func (sc *ScheduleController) GetProfessionalSchedules(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rows, err := sc.store.ListWindowsByProfessional(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Schedule")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (sc *ScheduleController) CreateSchedule(c *gin.Context) {
	var input ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	w, err := sc.manager.CreateWindow(c.Request.Context(), input.window())
	if err != nil {
		respondWithSchedulingError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// UpdateSchedule refuses to deactivate, shrink or move a window over booked appointments.
func (sc *ScheduleController) UpdateSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	w, err := sc.manager.UpdateWindow(c.Request.Context(), id, input.window())
	if err != nil {
		respondWithSchedulingError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (sc *ScheduleController) DeleteSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.manager.DeleteWindow(c.Request.Context(), id); err != nil {
		respondWithSchedulingError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}
