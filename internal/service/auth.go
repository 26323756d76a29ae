package service

import (
	"context"
	"errors"

	"github.com/birthdays/birthdays-go/internal/crypto"
	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUserGone           = errors.New("user no longer exists")
)

// UserStore is the credential store the AuthService reads and writes.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService verifies credentials and registers users. It never touches
// sessions; callers hand the returned identity to the session manager.
type AuthService struct {
	users UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new user account and returns its identity.
func (s *AuthService) Register(ctx context.Context, req model.CredentialsRequest) (model.Identity, error) {
	if req.Username == "" {
		return model.Identity{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.Identity{}, ErrPasswordRequired
	}

	// Advisory only: the unique index decides under concurrent registrations.
	_, err := s.users.GetByEmail(ctx, req.Username)
	if err == nil {
		return model.Identity{}, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.Identity{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.Identity{}, err
	}

	user := &model.User{
		Email:        req.Username,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.Identity{}, ErrEmailTaken
		}
		return model.Identity{}, err
	}

	return model.IdentityOf(user), nil
}

// Login authenticates a user. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req model.CredentialsRequest) (model.Identity, error) {
	if req.Username == "" {
		return model.Identity{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.Identity{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			crypto.BurnComparison(req.Password)
			return model.Identity{}, ErrInvalidCredentials
		}
		return model.Identity{}, err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return model.Identity{}, ErrInvalidCredentials
	}

	return model.IdentityOf(user), nil
}

// Identity reloads the identity of a signed-in user. A session outliving its
// user yields ErrUserGone.
func (s *AuthService) Identity(ctx context.Context, id int64) (model.Identity, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Identity{}, ErrUserGone
		}
		return model.Identity{}, err
	}
	return model.IdentityOf(user), nil
}
