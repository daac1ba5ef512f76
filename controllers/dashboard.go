package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/repository"
	"agenda-backend/utils"
)

// birthdayWindowDays is how far ahead the dashboard looks for birthdays.
const birthdayWindowDays = 7

type DashboardStore interface {
	CountClients(ctx context.Context) (int64, error)
	UpcomingBirthdays(ctx context.Context, from models.Date, days int) ([]models.Client, error)
	ListAppointmentDetails(ctx context.Context, f repository.AppointmentFilter) ([]models.AppointmentDetail, error)
	AppointmentStats(ctx context.Context, professionalID uint) (*models.AppointmentStats, error)
}

type DashboardOverview struct {
	TotalClients      int64                      `json:"totalClientes"`
	Today             models.Date                `json:"hoy"`
	TodayAppointments []models.AppointmentDetail `json:"citasHoy"`
	Stats             models.AppointmentStats    `json:"estadisticas"`
	UpcomingBirthdays []UpcomingBirthday         `json:"proximosCumpleanos"`
}

type UpcomingBirthday struct {
	ClientID uint        `json:"idCliente"`
	Name     string      `json:"nombreCliente"`
	Phone    string      `json:"celularCliente"`
	Date     models.Date `json:"fechaNacCliente"`
	InDays   int         `json:"enDias"`
}

type DashboardController struct {
	store DashboardStore
	loc   *time.Location
	now   func() time.Time
	log   *slog.Logger
}

func NewDashboardController(store DashboardStore, loc *time.Location, log *slog.Logger) *DashboardController {
	return &DashboardController{store: store, loc: loc, now: time.Now, log: log}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	now := dc.now().In(dc.loc)
	today := utils.Today(now, dc.loc)

	total, err := dc.store.CountClients(ctx)
	if err != nil {
		respondWithStoreError(c, dc.log, err, "Client")
		return
	}
	appointments, err := dc.store.ListAppointmentDetails(ctx, repository.AppointmentFilter{Date: today})
	if err != nil {
		respondWithStoreError(c, dc.log, err, "Appointment")
		return
	}
	stats, err := dc.store.AppointmentStats(ctx, 0)
	if err != nil {
		respondWithStoreError(c, dc.log, err, "Appointment")
		return
	}
	clients, err := dc.store.UpcomingBirthdays(ctx, today, birthdayWindowDays)
	if err != nil {
		respondWithStoreError(c, dc.log, err, "Client")
		return
	}

	if appointments == nil {
		appointments = []models.AppointmentDetail{}
	}
	overview := DashboardOverview{
		TotalClients:      total,
		Today:             today,
		TodayAppointments: appointments,
		Stats:             *stats,
		UpcomingBirthdays: make([]UpcomingBirthday, 0, len(clients)),
	}
	for _, cl := range clients {
		overview.UpcomingBirthdays = append(overview.UpcomingBirthdays, UpcomingBirthday{
			ClientID: cl.ID,
			Name:     cl.Name,
			Phone:    cl.Phone,
			Date:     cl.BirthDate,
			InDays:   daysUntilBirthday(now, cl.BirthDate),
		})
	}
	c.JSON(http.StatusOK, overview)
}

// daysUntilBirthday counts whole days from now to the next occurrence of birth.
func daysUntilBirthday(now time.Time, birth models.Date) int {
	b, err := birth.Time(now.Location())
	if err != nil {
		return -1
	}
	today := utils.BeginningOfDay(now)
	next := time.Date(today.Year(), b.Month(), b.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = next.AddDate(1, 0, 0)
	}
	return int(next.Sub(today).Hours() / 24)
}
