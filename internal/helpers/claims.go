package helpers

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/eventradar/internal/models"
)

// CustomClaims mirrors the access tokens issued by Supabase auth.
type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// EnhancedClaims adds the application role, which lives in the user_roles
// table rather than in the token.
type EnhancedClaims struct {
	*CustomClaims
	Role     string `json:"role"`
	UserID   string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == models.RoleAdmin
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return models.RoleUser
	}
	return ec.Role
}

// Actor converts the claims into the caller identity the services take.
func (ec *EnhancedClaims) Actor() *models.Actor {
	if ec == nil {
		return nil
	}
	return &models.Actor{UserID: ec.UserID, Role: ec.GetSafeRole()}
}
