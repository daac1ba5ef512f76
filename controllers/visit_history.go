package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/repository"
	"agenda-backend/utils"
)

type VisitHistoryStore interface {
	ListVisitHistories(ctx context.Context) ([]models.VisitHistory, error)
	FindVisitHistory(ctx context.Context, id uint) (*models.VisitHistory, error)
	FindVisitHistoryByAppointment(ctx context.Context, appointmentID uint) (*models.VisitHistory, error)
	CreateVisitHistory(ctx context.Context, hv *models.VisitHistory) error
	UpdateVisitHistory(ctx context.Context, hv *models.VisitHistory) error
	DeleteVisitHistory(ctx context.Context, id uint) error
	ListVisitHistoryDetails(ctx context.Context, f repository.VisitHistoryFilter) ([]models.VisitHistoryDetail, error)
	FindAppointment(ctx context.Context, id uint) (*models.Appointment, error)
}

// VisitHistoryController manages HV records with before/after images.
type VisitHistoryController struct {
	store VisitHistoryStore
	log   *slog.Logger
}

func NewVisitHistoryController(store VisitHistoryStore, log *slog.Logger) *VisitHistoryController {
	return &VisitHistoryController{store: store, log: log}
}

type CreateVisitHistoryInput struct {
	AppointmentID      uint   `json:"idCita" binding:"required"`
	Description        string `json:"hvDesc" binding:"required"`
	ServiceDescription string `json:"servDescripcion" binding:"required"`
	ImageBefore        string `json:"hvImagenAntes"`
	ImageAfter         string `json:"hvImagenDespues"`
}

type UpdateVisitHistoryInput struct {
	Description        *string `json:"hvDesc"`
	ServiceDescription *string `json:"servDescripcion"`
	ImageBefore        *string `json:"hvImagenAntes"`
	ImageAfter         *string `json:"hvImagenDespues"`
}

func (vc *VisitHistoryController) CreateVisitHistory(c *gin.Context) {
	var input CreateVisitHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	before, err := decodeImage(input.ImageBefore)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "hvImagenAntes: "+err.Error())
		return
	}
	after, err := decodeImage(input.ImageAfter)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "hvImagenDespues: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := vc.store.FindAppointment(ctx, input.AppointmentID); err != nil {
		respondWithStoreError(c, vc.log, err, "Appointment")
		return
	}

	hv := models.VisitHistory{
		AppointmentID:      input.AppointmentID,
		Description:        input.Description,
		ServiceDescription: input.ServiceDescription,
		ImageBefore:        before,
		ImageAfter:         after,
	}
	if err := vc.store.CreateVisitHistory(ctx, &hv); err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusCreated, hv)
}

func (vc *VisitHistoryController) GetVisitHistories(c *gin.Context) {
	rows, err := vc.store.ListVisitHistories(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (vc *VisitHistoryController) GetVisitHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	hv, err := vc.store.FindVisitHistory(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusOK, hv)
}

func (vc *VisitHistoryController) GetVisitHistoryByAppointment(c *gin.Context) {
	id, ok := parseID(c, "idCita")
	if !ok {
		return
	}
	hv, err := vc.store.FindVisitHistoryByAppointment(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusOK, hv)
}

func (vc *VisitHistoryController) UpdateVisitHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input UpdateVisitHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	hv, err := vc.store.FindVisitHistory(ctx, id)
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	if input.Description != nil {
		hv.Description = *input.Description
	}
	if input.ServiceDescription != nil {
		hv.ServiceDescription = *input.ServiceDescription
	}
	if input.ImageBefore != nil {
		if hv.ImageBefore, err = decodeImage(*input.ImageBefore); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "hvImagenAntes: "+err.Error())
			return
		}
	}
	if input.ImageAfter != nil {
		if hv.ImageAfter, err = decodeImage(*input.ImageAfter); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "hvImagenDespues: "+err.Error())
			return
		}
	}

	if err := vc.store.UpdateVisitHistory(ctx, hv); err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusOK, hv)
}

func (vc *VisitHistoryController) DeleteVisitHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := vc.store.DeleteVisitHistory(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit history deleted successfully"})
}

// GetAllDetails lists every HV joined with appointment, client, service and professional.
func (vc *VisitHistoryController) GetAllDetails(c *gin.Context) {
	vc.listDetails(c, repository.VisitHistoryFilter{})
}

func (vc *VisitHistoryController) GetClientDetails(c *gin.Context) {
	id, ok := parseID(c, "idCliente")
	if !ok {
		return
	}
	vc.listDetails(c, repository.VisitHistoryFilter{ClientID: id})
}

func (vc *VisitHistoryController) GetDetail(c *gin.Context) {
	id, ok := parseID(c, "idHv")
	if !ok {
		return
	}
	rows, err := vc.store.ListVisitHistoryDetails(c.Request.Context(), repository.VisitHistoryFilter{ID: id})
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	if len(rows) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Visit history not found")
		return
	}
	c.JSON(http.StatusOK, rows[0])
}

func (vc *VisitHistoryController) listDetails(c *gin.Context, f repository.VisitHistoryFilter) {
	rows, err := vc.store.ListVisitHistoryDetails(c.Request.Context(), f)
	if err != nil {
		respondWithStoreError(c, vc.log, err, "Visit history")
		return
	}
	if rows == nil {
		rows = []models.VisitHistoryDetail{}
	}
	c.JSON(http.StatusOK, rows)
}
