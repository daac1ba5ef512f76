// controllers/services.go
package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/utils"
)

type ServiceStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	FindService(ctx context.Context, id uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id uint) error
}

type ServiceController struct {
	store ServiceStore
	log   *slog.Logger
}

func NewServiceController(store ServiceStore, log *slog.Logger) *ServiceController {
	return &ServiceController{store: store, log: log}
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string  `json:"servNombre" binding:"required"`
	Description string  `json:"servDescripcion"`
	Cost        float64 `json:"servCosto" binding:"min=0"`
	Duration    int     `json:"servDuracion" binding:"min=0"` // in minutes, 0 means default
	Image       string  `json:"servImagen"`                   // base64
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string  `json:"servNombre"`
	Description *string  `json:"servDescripcion"`
	Cost        *float64 `json:"servCosto" binding:"omitempty,min=0"`
	Duration    *int     `json:"servDuracion" binding:"omitempty,min=1"`
	Image       *string  `json:"servImagen"`
}

// CreateService creates a new service
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	image, err := decodeImage(input.Image)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	service := models.Service{
		Name:            input.Name,
		Description:     input.Description,
		Cost:            input.Cost,
		DurationMinutes: input.Duration,
		Image:           image,
	}
	if service.DurationMinutes == 0 {
		service.DurationMinutes = models.DefaultServiceDuration
	}

	if err := sc.store.CreateService(c.Request.Context(), &service); err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}
	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services
func (sc *ServiceController) GetServices(c *gin.Context) {
	services, err := sc.store.ListServices(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	service, err := sc.store.FindService(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	service, err := sc.store.FindService(ctx, id)
	if err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}

	// Update fields if provided
	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Cost != nil {
		service.Cost = *input.Cost
	}
	if input.Duration != nil {
		service.DurationMinutes = *input.Duration
	}
	if input.Image != nil {
		if service.Image, err = decodeImage(*input.Image); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := sc.store.UpdateService(ctx, service); err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service. Services referenced by appointments cannot be deleted.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.store.DeleteService(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, sc.log, err, "Service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
