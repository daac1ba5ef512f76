package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
	"agenda-backend/scheduling"
	"agenda-backend/utils"
)

// respondWithSchedulingError maps the core error taxonomy onto HTTP.
// Conflicts are client errors and carry the colliding appointments.
func respondWithSchedulingError(c *gin.Context, log *slog.Logger, err error) {
	var (
		ve *scheduling.ValidationError
		ne *scheduling.NotFoundError
		ce *scheduling.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		details := gin.H{}
		if len(ve.Fields) > 0 {
			details["fields"] = ve.Fields
		}
		utils.RespondWithErrorDetails(c, http.StatusBadRequest, ve.Error(), details)
	case errors.As(err, &ne):
		utils.RespondWithError(c, http.StatusNotFound, ne.Error())
	case errors.As(err, &ce):
		details := gin.H{}
		if len(ce.Appointments) > 0 {
			details["conflicts"] = ce.Appointments
		}
		utils.RespondWithErrorDetails(c, http.StatusBadRequest, ce.Reason, details)
	default:
		log.Error("scheduling storage failure", "err", err, "path", c.FullPath())
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// respondWithStoreError maps repository sentinels for the CRUD handlers.
func respondWithStoreError(c *gin.Context, log *slog.Logger, err error, entity string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, models.ErrReferenced):
		utils.RespondWithError(c, http.StatusBadRequest, entity+" is referenced by other records")
	case errors.Is(err, models.ErrDuplicate):
		utils.RespondWithError(c, http.StatusConflict, entity+" already exists")
	default:
		log.Error("database error", "entity", entity, "err", err, "path", c.FullPath())
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// parseID reads a positive integer path parameter, responding 400 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}
