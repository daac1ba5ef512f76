package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

type ProfessionalStore interface {
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
	FindProfessional(ctx context.Context, id uint) (*models.Professional, error)
	CreateProfessional(ctx context.Context, p *models.Professional) error
	DeleteProfessional(ctx context.Context, id uint) error
}

// ProfessionalUpdater saves a professional under its row lock, refusing
// default hours that would leave upcoming appointments outside them.
type ProfessionalUpdater interface {
	UpdateProfessional(ctx context.Context, id uint, fn func(p *models.Professional) error) (*models.Professional, error)
}

type ProfessionalController struct {
	store   ProfessionalStore
	updater ProfessionalUpdater
	log     *slog.Logger
}

func NewProfessionalController(store ProfessionalStore, updater ProfessionalUpdater, log *slog.Logger) *ProfessionalController {
	return &ProfessionalController{store: store, updater: updater, log: log}
}

// CreateProfessionalInput defines the expected JSON structure for creating a professional
type CreateProfessionalInput struct {
	Name         string `json:"nombreProfesional" binding:"required"`
	Email        string `json:"correoProfesional" binding:"omitempty,email"`
	Phone        string `json:"celularProfesional"`
	Specialty    string `json:"especialidad"`
	DefaultStart string `json:"horaInicioDefecto"`
	DefaultEnd   string `json:"horaFinDefecto"`
}

// UpdateProfessionalInput defines the expected JSON structure for updating a professional
type UpdateProfessionalInput struct {
	Name         *string `json:"nombreProfesional"`
	Email        *string `json:"correoProfesional" binding:"omitempty,email"`
	Phone        *string `json:"celularProfesional"`
	Specialty    *string `json:"especialidad"`
	DefaultStart *string `json:"horaInicioDefecto"`
	DefaultEnd   *string `json:"horaFinDefecto"`
}

// defaultHours validates a pair of default working hours. Both empty clears them.
func defaultHours(start, end string) (*string, *string, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil, nil
	}
	iv, err := scheduling.ParseInterval(start, end)
	if err != nil {
		return nil, nil, err
	}
	if !iv.Valid() {
		return nil, nil, &scheduling.ValidationError{Fields: []string{"horaInicioDefecto", "horaFinDefecto"}, Msg: "start time must be before end time"}
	}
	s, e := iv.Start.String(), iv.End.String()
	return &s, &e, nil
}

func (pc *ProfessionalController) CreateProfessional(c *gin.Context) {
	var input CreateProfessionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	start, end, err := defaultHours(input.DefaultStart, input.DefaultEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid default hours: "+err.Error())
		return
	}

	p := models.Professional{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Specialty:    input.Specialty,
		DefaultStart: start,
		DefaultEnd:   end,
	}
	if err := pc.store.CreateProfessional(c.Request.Context(), &p); err != nil {
		respondWithStoreError(c, pc.log, err, "Professional")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (pc *ProfessionalController) GetProfessionals(c *gin.Context) {
	rows, err := pc.store.ListProfessionals(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, pc.log, err, "Professional")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (pc *ProfessionalController) GetProfessional(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := pc.store.FindProfessional(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, pc.log, err, "Professional")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (pc *ProfessionalController) UpdateProfessional(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input UpdateProfessionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	p, err := pc.updater.UpdateProfessional(c.Request.Context(), id, input.apply)
	if err != nil {
		respondWithSchedulingError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// apply merges the provided fields onto p.
func (input UpdateProfessionalInput) apply(p *models.Professional) error {
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Email != nil {
		p.Email = *input.Email
	}
	if input.Phone != nil {
		p.Phone = *input.Phone
	}
	if input.Specialty != nil {
		p.Specialty = *input.Specialty
	}
	if input.DefaultStart != nil || input.DefaultEnd != nil {
		start, end := deref(p.DefaultStart), deref(p.DefaultEnd)
		if input.DefaultStart != nil {
			start = *input.DefaultStart
		}
		if input.DefaultEnd != nil {
			end = *input.DefaultEnd
		}
		var err error
		if p.DefaultStart, p.DefaultEnd, err = defaultHours(start, end); err != nil {
			var ve *scheduling.ValidationError
			if errors.As(err, &ve) {
				return ve
			}
			return &scheduling.ValidationError{Fields: []string{"horaInicioDefecto", "horaFinDefecto"}, Msg: "Invalid default hours: " + err.Error()}
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &scheduling.ValidationError{Fields: []string{"nombreProfesional"}, Msg: "nombreProfesional cannot be empty"}
	}
	return nil
}

func (pc *ProfessionalController) DeleteProfessional(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.store.DeleteProfessional(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, pc.log, err, "Professional")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Professional deleted successfully"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
