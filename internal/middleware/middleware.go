package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/eventradar/internal/helpers"
	"github.com/joshua-takyi/eventradar/internal/models"
)

// ClaimsKey is the context key holding *helpers.EnhancedClaims for an
// authenticated request.
const ClaimsKey = "user"

type TokenVerifier interface {
	Verify(token string) (*helpers.CustomClaims, error)
}

type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) string
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger logs one line per request once the handler has run.
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery turns a panic into a generic 500 without leaking details.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID, _ := c.Get("request_id")
		logger.Error("panic recovered",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse("Something went wrong!"))
	})
}

// OptionalAuth attaches claims when the request carries a valid access token
// in the Authorization header or the access_token cookie. It never rejects a
// request; the services decide what an anonymous caller may do.
func OptionalAuth(verifier TokenVerifier, roles RoleResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		token := helpers.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie("access_token")
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("ignoring invalid access token", "error", err)
			c.Next()
			return
		}

		enhanced := &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         models.RoleUser,
			UserID:       claims.Subject,
			Email:        claims.Email,
		}
		if roles != nil {
			enhanced.Role = roles.ResolveRole(c.Request.Context(), claims.Subject)
		}
		if name, ok := claims.UserMetadata["full_name"].(string); ok {
			enhanced.FullName = name
		}

		c.Set(ClaimsKey, enhanced)
		c.Set("access_token", token)
		c.Next()
	}
}

// Actor returns the authenticated caller, or nil for anonymous requests.
func Actor(c *gin.Context) *models.Actor {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	if !ok {
		return nil
	}
	return claims.Actor()
}
