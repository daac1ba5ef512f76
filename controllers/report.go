// controllers/report.go
package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/utils"
)

const topClientsLimit = 5

type ReportStore interface {
	ServiceReport(ctx context.Context, from, to models.Date) ([]models.ServiceSummary, error)
	TopClients(ctx context.Context, from, to models.Date, limit int) ([]models.ClientSummary, error)
}

// ReportController handles all reporting functions
type ReportController struct {
	store ReportStore
	loc   *time.Location
	now   func() time.Time
	log   *slog.Logger
}

func NewReportController(store ReportStore, loc *time.Location, log *slog.Logger) *ReportController {
	return &ReportController{store: store, loc: loc, now: time.Now, log: log}
}

type ReportSummary struct {
	From         models.Date             `json:"desde"`
	To           models.Date             `json:"hasta"`
	Services     []models.ServiceSummary `json:"servicios"`
	TotalRevenue float64                 `json:"ingresosTotales"`
	TotalCount   int                     `json:"citasTotales"`
	TopClients   []models.ClientSummary  `json:"topClientes"`
}

// GetReport aggregates bookings between ?desde and ?hasta, defaulting to the current month.
func (rc *ReportController) GetReport(c *gin.Context) {
	now := rc.now().In(rc.loc)
	from := models.DateOf(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, rc.loc))
	to := utils.Today(now, rc.loc)

	var err error
	if raw := c.Query("desde"); raw != "" {
		if from, err = models.ParseDate(raw); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "desde: "+err.Error())
			return
		}
	}
	if raw := c.Query("hasta"); raw != "" {
		if to, err = models.ParseDate(raw); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "hasta: "+err.Error())
			return
		}
	}
	if to < from {
		utils.RespondWithError(c, http.StatusBadRequest, "desde must not be after hasta")
		return
	}

	ctx := c.Request.Context()
	services, err := rc.store.ServiceReport(ctx, from, to)
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Report")
		return
	}
	clients, err := rc.store.TopClients(ctx, from, to, topClientsLimit)
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Report")
		return
	}

	summary := ReportSummary{
		From:       from,
		To:         to,
		Services:   services,
		TopClients: clients,
	}
	if summary.Services == nil {
		summary.Services = []models.ServiceSummary{}
	}
	if summary.TopClients == nil {
		summary.TopClients = []models.ClientSummary{}
	}
	for _, s := range services {
		summary.TotalRevenue += s.Revenue
		summary.TotalCount += s.Count
	}
	c.JSON(http.StatusOK, summary)
}
