package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
)

// respondError maps service errors onto status codes. Anything unrecognised
// is a store or provider failure: it is logged and reported without detail.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ValidationResponse(verr))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found"))
	case errors.Is(err, models.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("Profile not found"))
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Authentication required"))
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid email or password"))
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrAlreadyJoined),
		errors.Is(err, models.ErrEventFull),
		errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrAuthDisabled), errors.Is(err, services.ErrViewsDisabled):
		c.JSON(http.StatusNotImplemented, models.ErrorResponse(err.Error()))
	default:
		requestID, _ := c.Get("request_id")
		logger.Error("request failed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("Internal server error"))
	}
}

// bindJSON decodes the request body into v and reports decoding failures as
// a 400. It returns false when the response has already been written.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationResponse(models.DecodeViolation(err)))
		return false
	}
	return true
}
