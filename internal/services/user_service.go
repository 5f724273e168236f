package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/session"
	"github.com/supabase-community/gotrue-go/types"
)

var ErrAuthDisabled = errors.New("authentication is not configured")

type UserService struct {
	auth      models.AuthRepo
	profiles  models.ProfileRepo
	validator *models.SchemaValidator
	sessions  *session.Broker
	logger    *slog.Logger
	enforce   bool
	now       func() time.Time
}

// NewUserService wires account and profile operations. auth may be nil, in
// which case only profile reads and updates are available.
func NewUserService(auth models.AuthRepo, profiles models.ProfileRepo, validator *models.SchemaValidator, sessions *session.Broker, logger *slog.Logger) *UserService {
	return &UserService{
		auth:      auth,
		profiles:  profiles,
		validator: validator,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// WithOwnershipChecks restricts profile updates to the profile owner and
// admins.
func (us *UserService) WithOwnershipChecks(enforce bool) *UserService {
	us.enforce = enforce
	return us
}

func (us *UserService) AuthEnabled() bool {
	return us.auth != nil
}

func (us *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*types.SignupResponse, error) {
	if us.auth == nil {
		return nil, ErrAuthDisabled
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := us.validator.Struct(req); err != nil {
		return nil, err
	}
	return us.auth.Signup(ctx, req)
}

func (us *UserService) Login(ctx context.Context, req *models.LoginRequest) (*types.TokenResponse, error) {
	if us.auth == nil {
		return nil, ErrAuthDisabled
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := us.validator.Struct(req); err != nil {
		return nil, err
	}

	res, err := us.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	us.publish(session.SignedIn, res)
	return res, nil
}

func (us *UserService) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if us.auth == nil {
		return nil, ErrAuthDisabled
	}
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.NewValidationError("refresh_token", "is required")
	}

	res, err := us.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	us.publish(session.TokenRefreshed, res)
	return res, nil
}

// Logout revokes the session behind accessToken. A missing token still
// counts as signed out.
func (us *UserService) Logout(ctx context.Context, accessToken string, actor *models.Actor) error {
	if us.auth == nil {
		return ErrAuthDisabled
	}
	if accessToken != "" {
		if err := us.auth.SignOut(ctx, accessToken); err != nil {
			us.logger.Warn("provider sign out failed", "error", err)
		}
	}

	ev := session.Event{Kind: session.SignedOut, At: us.now()}
	if actor != nil {
		ev.UserID = actor.UserID
	}
	us.sessions.Publish(ev)
	return nil
}

func (us *UserService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	userID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, models.ErrProfileNotFound
	}
	return us.profiles.GetProfile(ctx, userID)
}

func (us *UserService) UpdateProfile(ctx context.Context, id string, upd *models.ProfileUpdate, actor *models.Actor) (*models.Profile, error) {
	if err := us.validator.Struct(upd); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, models.ErrProfileNotFound
	}

	if us.enforce {
		if actor == nil {
			return nil, models.ErrUnauthenticated
		}
		if !actor.Is(userID.String()) && !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: you can only edit your own profile", models.ErrForbidden)
		}
	}

	return us.profiles.UpdateProfile(ctx, userID, upd.Columns())
}

// ResolveRole looks up the stored role for a verified user. Lookup failures
// downgrade to the plain user role.
func (us *UserService) ResolveRole(ctx context.Context, userID string) string {
	id, err := uuid.Parse(userID)
	if err != nil {
		return models.RoleUser
	}
	role, err := us.profiles.GetRole(ctx, id)
	if err != nil {
		us.logger.Warn("role lookup failed", "user_id", userID, "error", err)
		return models.RoleUser
	}
	return role
}

func (us *UserService) publish(kind session.Kind, res *types.TokenResponse) {
	ev := session.Event{Kind: kind, At: us.now()}
	if res != nil {
		if res.User.ID != uuid.Nil {
			ev.UserID = res.User.ID.String()
		}
		if res.ExpiresIn > 0 {
			ev.ExpiresAt = ev.At.Add(time.Duration(res.ExpiresIn) * time.Second)
		}
	}
	us.sessions.Publish(ev)
}
