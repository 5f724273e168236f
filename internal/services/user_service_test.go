package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

type fakeAuth struct {
	userID     uuid.UUID
	signedOut  []string
	signInErr  error
	signOutErr error
}

func (f *fakeAuth) Signup(ctx context.Context, req *models.SignupRequest) (*types.SignupResponse, error) {
	res := &types.SignupResponse{}
	res.User.ID = f.userID
	res.User.Email = req.Email
	return res, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.token(), nil
}

func (f *fakeAuth) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	return f.token(), nil
}

func (f *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return f.signOutErr
}

func (f *fakeAuth) token() *types.TokenResponse {
	res := &types.TokenResponse{}
	res.AccessToken = "access"
	res.RefreshToken = "refresh"
	res.ExpiresIn = 3600
	res.User.ID = f.userID
	return res
}

func newTestUserService(auth models.AuthRepo) (*UserService, *models.MemoryRepo, *[]session.Event) {
	repo := models.NewMemoryRepo(nil)
	broker := session.NewBroker()
	var events []session.Event
	broker.Subscribe(func(ev session.Event) { events = append(events, ev) })

	us := NewUserService(auth, repo, testValidator(), broker, discardLogger())
	us.now = func() time.Time { return testNow }
	return us, repo, &events
}

func TestLoginPublishesSignedIn(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{userID: uuid.New()}
	us, _, events := newTestUserService(auth)

	res, err := us.Login(ctx, &models.LoginRequest{Email: " Ana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "access", res.AccessToken)

	require.Len(t, *events, 1)
	ev := (*events)[0]
	assert.Equal(t, session.SignedIn, ev.Kind)
	assert.Equal(t, auth.userID.String(), ev.UserID)
	assert.Equal(t, testNow.Add(time.Hour), ev.ExpiresAt)
}

func TestLoginFailuresPublishNothing(t *testing.T) {
	ctx := context.Background()
	us, _, events := newTestUserService(&fakeAuth{signInErr: models.ErrInvalidCredentials})

	_, err := us.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = us.Login(ctx, &models.LoginRequest{Email: "ana", Password: "x"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Empty(t, *events)
}

func TestRefreshAndLogoutPublish(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{userID: uuid.New(), signOutErr: errors.New("provider down")}
	us, _, events := newTestUserService(auth)

	_, err := us.Refresh(ctx, "")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = us.Refresh(ctx, "refresh")
	require.NoError(t, err)

	require.NoError(t, us.Logout(ctx, "access", &models.Actor{UserID: auth.userID.String()}))
	assert.Equal(t, []string{"access"}, auth.signedOut)

	require.Len(t, *events, 2)
	assert.Equal(t, session.TokenRefreshed, (*events)[0].Kind)
	assert.Equal(t, session.SignedOut, (*events)[1].Kind)
	assert.Equal(t, auth.userID.String(), (*events)[1].UserID)
}

func TestSignupValidatesBeforeCallingProvider(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{userID: uuid.New()}
	us, _, _ := newTestUserService(auth)

	_, err := us.Signup(ctx, &models.SignupRequest{
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
		FullName:        "Ana",
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	res, err := us.Signup(ctx, &models.SignupRequest{
		Email:           "ANA@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.User.Email)
}

func TestAuthDisabledWithoutProvider(t *testing.T) {
	us, _, _ := newTestUserService(nil)

	assert.False(t, us.AuthEnabled())
	_, err := us.Login(context.Background(), &models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestUpdateProfileOwnership(t *testing.T) {
	ctx := context.Background()
	us, repo, _ := newTestUserService(nil)
	us.WithOwnershipChecks(true)

	id := uuid.New()
	repo.PutProfile(models.Profile{ID: id, FullName: "Ana"})
	name := "Ana Lopez"
	upd := &models.ProfileUpdate{FullName: &name}

	_, err := us.UpdateProfile(ctx, id.String(), upd, nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = us.UpdateProfile(ctx, id.String(), upd, &models.Actor{UserID: uuid.NewString(), Role: models.RoleUser})
	assert.ErrorIs(t, err, models.ErrForbidden)

	got, err := us.UpdateProfile(ctx, id.String(), upd, &models.Actor{UserID: id.String(), Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", got.FullName)

	_, err = us.GetProfile(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestResolveRole(t *testing.T) {
	ctx := context.Background()
	us, repo, _ := newTestUserService(nil)
	id := uuid.New()

	assert.Equal(t, models.RoleUser, us.ResolveRole(ctx, "garbage"))
	assert.Equal(t, models.RoleUser, us.ResolveRole(ctx, id.String()))

	repo.SetRole(id, models.RoleAdmin)
	assert.Equal(t, models.RoleAdmin, us.ResolveRole(ctx, id.String()))
}
