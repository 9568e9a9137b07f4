package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"
)

func newAuthService(f *fixture) usecase.AuthService {
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 1}}
	return usecase.NewAuthService(f.repo, config, zap.NewNop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)
	client := usecase.ClientInfo{UserAgent: "test", IPAddress: "127.0.0.1"}

	registered, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    " seller@example.com ",
		Password: "correct-horse",
		Role:     "seller",
		Name:     strPtr("Nusa Tours"),
	}, client)
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, authz.RoleSeller, registered.Role)

	// profile shares the account id
	accountID := uuid.MustParse(registered.UserID)
	require.Contains(t, f.profiles.rows, accountID)

	_, err = svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "SELLER@example.com",
		Password: "another-pass",
		Role:     "user",
	}, client)
	assert.ErrorIs(t, err, usecase.ErrConflict)

	loggedIn, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "seller@example.com",
		Password: "correct-horse",
	}, client)
	require.NoError(t, err)
	assert.NotEqual(t, registered.Token, loggedIn.Token)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "seller@example.com",
		Password: "wrong-password",
	}, client)
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	}, client)
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestAuthService_AdminCannotSelfRegister(t *testing.T) {
	svc := newAuthService(newFixture())

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "root@example.com",
		Password: "supersecret",
		Role:     "admin",
	}, usecase.ClientInfo{})

	var vErr *usecase.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "role")
}

func TestAuthService_LoginWithoutProfile(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "orphan@example.com",
		Password: "password1",
		Role:     "user",
	}, usecase.ClientInfo{})
	require.NoError(t, err)
	delete(f.profiles.rows, uuid.MustParse(resp.UserID))

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "orphan@example.com",
		Password: "password1",
	}, usecase.ClientInfo{})
	assert.ErrorIs(t, err, usecase.ErrProfileMissing)
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)
	roles := usecase.NewRoleResolver(f.profiles, zap.NewNop())

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "user@example.com",
		Password: "password1",
		Role:     "user",
	}, usecase.ClientInfo{})
	require.NoError(t, err)

	identity, err := svc.CurrentIdentity(context.Background(), resp.Token)
	require.NoError(t, err)
	require.NotNil(t, identity)

	actor, err := roles.ResolveRole(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleUser, actor.Role)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))

	identity, err = svc.CurrentIdentity(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = svc.CurrentIdentity(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Nil(t, identity)

	f.sessions.err = errDB
	_, err = svc.CurrentIdentity(context.Background(), resp.Token)
	assert.ErrorIs(t, err, usecase.ErrStoreUnavailable)
}

func TestRoleResolver(t *testing.T) {
	f := newFixture()
	roles := usecase.NewRoleResolver(f.profiles, zap.NewNop())

	_, err := roles.ResolveRole(context.Background(), nil)
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	_, err = roles.ResolveRole(context.Background(), &usecase.Identity{AccountID: uuid.New()})
	assert.ErrorIs(t, err, usecase.ErrProfileMissing)

	f.profiles.err = errDB
	_, err = roles.ResolveRole(context.Background(), &usecase.Identity{AccountID: uuid.New()})
	assert.ErrorIs(t, err, usecase.ErrStoreUnavailable)
}
