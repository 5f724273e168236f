package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
)

func GetProfile(us *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := us.GetProfile(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func UpdateProfile(us *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.ProfileUpdate
		if !bindJSON(c, &upd) {
			return
		}

		profile, err := us.UpdateProfile(c.Request.Context(), c.Param("id"), &upd, middleware.Actor(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
