package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
)

func JoinEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.JoinRequest
		if !bindJSON(c, &req) {
			return
		}

		attendance, err := es.Join(c.Request.Context(), c.Param("id"), &req, middleware.Actor(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, attendance)
	}
}

func LeaveEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.JoinRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := es.Leave(c.Request.Context(), c.Param("id"), &req, middleware.Actor(c)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Left event successfully"))
	}
}

func ListAttendees(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := es.Attendees(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
