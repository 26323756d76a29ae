package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/repository"
)

func newTestAuthService() (*AuthService, *memUsers) {
	users := newMemUsers()
	return NewAuthService(users), users
}

func TestRegister_EmptyEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), model.CredentialsRequest{
		Username: "",
		Password: "password123",
	})

	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), model.CredentialsRequest{
		Username: "test@example.com",
		Password: "",
	})

	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestRegisterThenLogin_SameIdentity(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	creds := []model.CredentialsRequest{
		{Username: "alice@example.com", Password: "pw123"},
		{Username: "bob@example.com", Password: "correct horse battery staple"},
		{Username: "Carol@Example.com", Password: "ünïcødé"},
	}

	for _, c := range creds {
		registered, err := svc.Register(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, c.Username, registered.Username)

		loggedIn, err := svc.Login(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, registered, loggedIn)
	}
}

func TestRegister_DuplicateEmailCreatesNoRow(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, users.count())

	// Case differs, so this is a different account.
	_, err = svc.Register(ctx, model.CredentialsRequest{Username: "ALICE@example.com", Password: "pw123"})
	assert.NoError(t, err)
}

// racingUsers hides existing rows from the advisory pre-check, as a concurrent
// registration would.
type racingUsers struct{ *memUsers }

func (racingUsers) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func TestRegister_UniqueIndexIsAuthoritative(t *testing.T) {
	users := newMemUsers()
	svc := NewAuthService(racingUsers{users})
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, users.count())
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "nope"})
	_, unknownUser := svc.Login(ctx, model.CredentialsRequest{Username: "mallory@example.com", Password: "pw123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	svc, users := newTestAuthService()
	users.err = errors.New("db down")

	_, err := svc.Login(context.Background(), model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentity(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.CredentialsRequest{Username: "alice@example.com", Password: "pw123"})
	require.NoError(t, err)

	got, err := svc.Identity(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered, got)

	users.remove("alice@example.com")
	_, err = svc.Identity(ctx, registered.ID)
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestIdentity_StoreError(t *testing.T) {
	svc, users := newTestAuthService()
	users.err = errors.New("connection refused")

	_, err := svc.Identity(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserGone)
}
