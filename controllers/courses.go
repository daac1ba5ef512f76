package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/utils"
)

type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	FindCourse(ctx context.Context, id uint) (*models.Course, error)
	CreateCourse(ctx context.Context, c *models.Course) error
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	FindProfessional(ctx context.Context, id uint) (*models.Professional, error)
}

type CourseController struct {
	store CourseStore
	log   *slog.Logger
}

func NewCourseController(store CourseStore, log *slog.Logger) *CourseController {
	return &CourseController{store: store, log: log}
}

// CourseInput is used for create and full update.
type CourseInput struct {
	ProfessionalID uint    `json:"idProfesional"`
	Name           string  `json:"nombreCurso"`
	Description    string  `json:"cursoDesc"`
	Duration       string  `json:"cursoDuracion"`
	Cost           float64 `json:"cursoCosto"`
	Image          string  `json:"imagenBase64"`
}

func (in CourseInput) validate() error {
	if in.ProfessionalID == 0 || in.Name == "" {
		return errors.New("idProfesional and nombreCurso are required")
	}
	if utf8.RuneCountInString(in.Duration) > models.MaxCourseDurationLen {
		return errors.New("cursoDuracion must be at most 100 characters")
	}
	if in.Cost < 0 {
		return errors.New("cursoCosto must not be negative")
	}
	return nil
}

// bindCourse parses and validates the body and checks the professional exists.
func (cc *CourseController) bindCourse(c *gin.Context) (*CourseInput, []byte, bool) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return nil, nil, false
	}
	if err := input.validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	image, err := decodeImage(input.Image)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	if _, err := cc.store.FindProfessional(c.Request.Context(), input.ProfessionalID); err != nil {
		respondWithStoreError(c, cc.log, err, "Professional")
		return nil, nil, false
	}
	return &input, image, true
}

func (cc *CourseController) CreateCourse(c *gin.Context) {
	input, image, ok := cc.bindCourse(c)
	if !ok {
		return
	}
	course := models.Course{
		ProfessionalID: input.ProfessionalID,
		Name:           input.Name,
		Description:    input.Description,
		Duration:       input.Duration,
		Cost:           input.Cost,
		Image:          image,
	}
	if err := cc.store.CreateCourse(c.Request.Context(), &course); err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (cc *CourseController) GetCourses(c *gin.Context) {
	rows, err := cc.store.ListCourses(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (cc *CourseController) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := cc.store.FindCourse(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse replaces the course fields. The stored image is kept when none is sent.
func (cc *CourseController) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	course, err := cc.store.FindCourse(ctx, id)
	if err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	input, image, ok := cc.bindCourse(c)
	if !ok {
		return
	}

	course.ProfessionalID = input.ProfessionalID
	course.Name = input.Name
	course.Description = input.Description
	course.Duration = input.Duration
	course.Cost = input.Cost
	if image != nil {
		course.Image = image
	}
	if err := cc.store.UpdateCourse(ctx, course); err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (cc *CourseController) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.store.DeleteCourse(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, cc.log, err, "Course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}
