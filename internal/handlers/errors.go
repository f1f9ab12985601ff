package handlers

import (
	"errors"
	"net/http"

	"clinic-app-server/internal/lock"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// respondSchedulingError maps lifecycle outcomes onto HTTP statuses.
// Anything that is not a scheduling.Error is an infrastructure failure.
func respondSchedulingError(c *gin.Context, err error, fallback string) {
	var se *scheduling.Error
	if !errors.As(err, &se) {
		if errors.Is(err, lock.ErrNotAcquired) {
			utils.Error(c, http.StatusServiceUnavailable, "The doctor's calendar is busy, please retry")
			return
		}
		utils.InternalError(c, fallback, err)
		return
	}

	status := http.StatusBadRequest
	switch se.Kind {
	case scheduling.KindSchedulingConflict, scheduling.KindInvalidTransition:
		status = http.StatusConflict
	case scheduling.KindNotFound:
		status = http.StatusNotFound
	}

	var detail interface{}
	if se.Conflict != nil {
		detail = se.Conflict
	}
	utils.Rejected(c, status, string(se.Kind), se.Message, detail)
}

// respondLookupError handles errors from a single-row gorm lookup.
func respondLookupError(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, what+" not found")
		return
	}
	utils.InternalError(c, "Failed to load "+what, err)
}

// respondWriteError handles errors from create/update/delete.
func respondWriteError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.Conflict(c, what+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		utils.Conflict(c, what+" is still referenced by other records")
	default:
		utils.InternalError(c, "Failed to save "+what, err)
	}
}

// idParam reads and validates a UUID path parameter.
func idParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, "Invalid "+name+" format")
		return "", false
	}
	return id, true
}
