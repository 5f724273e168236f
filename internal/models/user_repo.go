package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

// AuthRepo delegates identity operations to the hosted auth provider.
type AuthRepo interface {
	Signup(ctx context.Context, req *SignupRequest) (*types.SignupResponse, error)
	SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	SignOut(ctx context.Context, accessToken string) error
}

type ProfileRepo interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cols map[string]interface{}) (*Profile, error)
	GetRole(ctx context.Context, userID uuid.UUID) (string, error)
}

func (su *SupabaseRepo) Signup(ctx context.Context, req *SignupRequest) (*types.SignupResponse, error) {
	res, err := su.publicClient.Auth.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data: map[string]interface{}{
			"full_name": req.FullName,
		},
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "already registered") || strings.Contains(errMsg, "unique constraint") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	return res, nil
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	res, err := su.publicClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		if isCredentialRejection(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return res, nil
}

// isCredentialRejection reports whether the auth provider turned the
// credentials down, as opposed to failing to answer at all.
func isCredentialRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid login credentials") ||
		strings.Contains(msg, "invalid_credentials") ||
		strings.Contains(msg, "invalid_grant")
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	res, err := su.publicClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to refresh token: %v", ErrUnauthenticated, err)
	}
	return res, nil
}

func (su *SupabaseRepo) SignOut(ctx context.Context, accessToken string) error {
	if err := su.publicClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	raw, status, err := su.serviceClient.From(ProfileTable).
		Select("id,full_name,avatar_url,bio,created_at,updated_at", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%w", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %w", err)
	}
	if len(profiles) != 1 {
		return nil, ErrProfileNotFound
	}
	return &profiles[0], nil
}

func (su *SupabaseRepo) UpdateProfile(ctx context.Context, id uuid.UUID, cols map[string]interface{}) (*Profile, error) {
	if len(cols) == 0 {
		return su.GetProfile(ctx, id)
	}

	raw, _, err := su.serviceClient.From(ProfileTable).
		Update(cols, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}
	return &profiles[0], nil
}

// GetRole reads the user's role; users without a role row are plain users.
func (su *SupabaseRepo) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	raw, _, err := su.serviceClient.From(UserRolesTable).
		Select("role", "", false).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}

	var rows []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal role rows: %w", err)
	}
	if len(rows) == 0 || rows[0].Role == "" {
		return RoleUser, nil
	}
	return rows[0].Role, nil
}
