// controllers/reminder.go
package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agenda-backend/models"
	"agenda-backend/services"
	"agenda-backend/utils"
)

type ReminderStore interface {
	ListTemplates(ctx context.Context) ([]models.ReminderTemplate, error)
	FindTemplate(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error)
	CreateTemplate(ctx context.Context, t *models.ReminderTemplate) error
	UpdateTemplate(ctx context.Context, t *models.ReminderTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error)
}

// ReminderRunner sends the next-day reminders on demand.
type ReminderRunner interface {
	SendDailyReminders(ctx context.Context) (services.RunSummary, error)
}

type ReminderController struct {
	store  ReminderStore
	runner ReminderRunner
	log    *slog.Logger
}

// NewReminderController accepts a nil runner when reminders are disabled.
func NewReminderController(store ReminderStore, runner ReminderRunner, log *slog.Logger) *ReminderController {
	return &ReminderController{store: store, runner: runner, log: log}
}

// CreateReminderTemplateInput defines the expected JSON structure
type CreateReminderTemplateInput struct {
	Message  string `json:"message" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// UpdateReminderTemplateInput defines the expected JSON structure
type UpdateReminderTemplateInput struct {
	Message  *string `json:"message" binding:"omitempty,min=1"`
	IsActive *bool   `json:"isActive"`
}

func (rc *ReminderController) CreateReminderTemplate(c *gin.Context) {
	var input CreateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template := models.ReminderTemplate{
		ID:       uuid.New(),
		Message:  input.Message,
		IsActive: true,
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := rc.store.CreateTemplate(c.Request.Context(), &template); err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	templates, err := rc.store.ListTemplates(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (rc *ReminderController) GetReminderTemplate(c *gin.Context) {
	id, ok := parseTemplateID(c)
	if !ok {
		return
	}
	template, err := rc.store.FindTemplate(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	id, ok := parseTemplateID(c)
	if !ok {
		return
	}
	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	template, err := rc.store.FindTemplate(ctx, id)
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := rc.store.UpdateTemplate(ctx, template); err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) DeleteReminderTemplate(c *gin.Context) {
	id, ok := parseTemplateID(c)
	if !ok {
		return
	}
	if err := rc.store.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, rc.log, err, "Template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	logs, err := rc.store.ListReminderLogs(c.Request.Context(), limit)
	if err != nil {
		respondWithStoreError(c, rc.log, err, "Reminder log")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// SendReminders runs the reminder job immediately.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	if rc.runner == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Reminders are disabled")
		return
	}
	summary, err := rc.runner.SendDailyReminders(c.Request.Context())
	if err != nil {
		rc.log.Error("reminder run failed", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to send reminders")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseTemplateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return uuid.Nil, false
	}
	return id, true
}
