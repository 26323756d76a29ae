package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/birthdays/birthdays-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Create inserts a new user and sets the generated ID on the user struct.
// The unique index on email is the authoritative duplicate check.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password_hash) VALUES (?, ?)`

	if r.dialect.returnsID() {
		err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query+` RETURNING id`), user.Email, user.PasswordHash).Scan(&user.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("inserting user: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, query, user.Email, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address (exact, case-sensitive match).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := r.dialect.Rebind(`SELECT id, email, password_hash FROM users WHERE email = ?`)

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("selecting user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := r.dialect.Rebind(`SELECT id, email, password_hash FROM users WHERE id = ?`)

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("selecting user: %w", err)
	}

	return user, nil
}
