package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
)

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "eventradar API is running",
		})
	}
}

func ListEvents(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := models.ParseEventFilter(c.Request.URL.Query())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		events, err := es.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func GetEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if es.TracksViews() {
			sessionID := c.GetHeader("X-Session-ID")
			if sessionID == "" {
				sessionID = c.ClientIP()
			}
			es.TrackView(c.Request.Context(), event, sessionID, c.Request.UserAgent(), middleware.Actor(c))
		}

		c.JSON(http.StatusOK, event)
	}
}

func CreateEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.EventInput
		if !bindJSON(c, &in) {
			return
		}

		created, err := es.Create(c.Request.Context(), &in, middleware.Actor(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func UpdateEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.EventPatch
		if !bindJSON(c, &patch) {
			return
		}

		updated, err := es.Update(c.Request.Context(), c.Param("id"), &patch, middleware.Actor(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteEvent(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := es.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Event deleted successfully"))
	}
}

func EventStats(es *services.EventService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := es.ViewStats(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
