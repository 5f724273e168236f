package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

const refreshCookieMaxAge = 3600 * 24 * 30

// CookieSettings controls the auth cookies. Secure should be set whenever
// the API is served over TLS.
type CookieSettings struct {
	Secure bool
}

func Signup(us *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if !bindJSON(c, &req) {
			return
		}

		res, err := us.Signup(c.Request.Context(), &req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": res.User})
	}
}

func Login(us *services.UserService, cookies CookieSettings, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !bindJSON(c, &req) {
			return
		}

		res, err := us.Login(c.Request.Context(), &req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		setAuthCookies(c, cookies, res)
		// tokens travel in cookies only
		c.JSON(http.StatusOK, gin.H{"user": res.User})
	}
}

func Refresh(us *services.UserService, cookies CookieSettings, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Refresh token not found"))
			return
		}

		res, err := us.Refresh(c.Request.Context(), refreshToken)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		setAuthCookies(c, cookies, res)
		c.JSON(http.StatusOK, models.MessageResponse("Token refreshed successfully"))
	}
}

func Logout(us *services.UserService, cookies CookieSettings, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetString("access_token")
		if err := us.Logout(c.Request.Context(), accessToken, middleware.Actor(c)); err != nil {
			respondError(c, logger, err)
			return
		}

		c.SetCookie("access_token", "", -1, "/", "", cookies.Secure, true)
		c.SetCookie("refresh_token", "", -1, "/", "", cookies.Secure, true)
		c.JSON(http.StatusOK, models.MessageResponse("Logged out successfully"))
	}
}

func setAuthCookies(c *gin.Context, cookies CookieSettings, res *types.TokenResponse) {
	c.SetCookie("access_token", res.AccessToken, res.ExpiresIn, "/", "", cookies.Secure, true)
	c.SetCookie("refresh_token", res.RefreshToken, refreshCookieMaxAge, "/", "", cookies.Secure, true)
}
