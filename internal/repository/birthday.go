package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-sql/civil"

	"github.com/birthdays/birthdays-go/internal/model"
)

var ErrBirthdayNotFound = errors.New("birthday not found")

// BirthdayChanges lists the columns an update should overwrite. Nil fields keep
// their stored value.
type BirthdayChanges struct {
	FirstName *string
	LastName  *string
	Birthdate *civil.Date
	Comment   *string
}

// BirthdayRepository handles birthday persistence. Every statement is scoped
// by the owning user's id.
type BirthdayRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewBirthdayRepository creates a new BirthdayRepository.
func NewBirthdayRepository(db *sql.DB, dialect Dialect) *BirthdayRepository {
	return &BirthdayRepository{db: db, dialect: dialect}
}

func (r *BirthdayRepository) selectColumns() string {
	return `id, user_id, first_name, last_name, ` + r.dialect.dateExpr("birthdate") + `, comment`
}

// ListByUser retrieves all birthdays owned by a user in insertion order.
func (r *BirthdayRepository) ListByUser(ctx context.Context, userID int64) ([]model.Birthday, error) {
	query := r.dialect.Rebind(`SELECT ` + r.selectColumns() + ` FROM birthdays WHERE user_id = ? ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("selecting birthdays: %w", err)
	}
	defer rows.Close()

	var birthdays []model.Birthday
	for rows.Next() {
		b, err := scanBirthday(rows)
		if err != nil {
			return nil, err
		}
		birthdays = append(birthdays, *b)
	}

	return birthdays, rows.Err()
}

// Create inserts a birthday and sets the generated ID on the struct.
func (r *BirthdayRepository) Create(ctx context.Context, b *model.Birthday) error {
	query := `INSERT INTO birthdays (user_id, first_name, last_name, birthdate, comment) VALUES (?, ?, ?, ?, ?)`
	args := []any{b.UserID, b.FirstName, b.LastName, b.Birthdate.String(), nullString(b.Comment)}

	if r.dialect.returnsID() {
		if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query+` RETURNING id`), args...).Scan(&b.ID); err != nil {
			return fmt.Errorf("inserting birthday: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting birthday: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	b.ID = id
	return nil
}

// Update merges changes into a birthday owned by userID and returns the stored row.
// The write is a single conditional statement and the read-back happens in the
// same transaction.
func (r *BirthdayRepository) Update(ctx context.Context, userID, id int64, changes BirthdayChanges) (*model.Birthday, error) {
	query := r.dialect.Rebind(`UPDATE birthdays SET
		first_name = COALESCE(?, first_name),
		last_name  = COALESCE(?, last_name),
		birthdate  = COALESCE(?, birthdate),
		comment    = COALESCE(?, comment),
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`)

	var birthdate any
	if changes.Birthdate != nil {
		birthdate = changes.Birthdate.String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query,
		optionalString(changes.FirstName),
		optionalString(changes.LastName),
		birthdate,
		optionalString(changes.Comment),
		id,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating birthday: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrBirthdayNotFound
	}

	b, err := r.getByID(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return b, nil
}

// Delete removes a birthday owned by userID.
func (r *BirthdayRepository) Delete(ctx context.Context, userID, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM birthdays WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting birthday: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBirthdayNotFound
	}

	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getByID reads one birthday owned by userID through q, which may be a transaction.
func (r *BirthdayRepository) getByID(ctx context.Context, q queryRower, userID, id int64) (*model.Birthday, error) {
	query := r.dialect.Rebind(`SELECT ` + r.selectColumns() + ` FROM birthdays WHERE id = ? AND user_id = ?`)

	b, err := scanBirthday(q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBirthdayNotFound
		}
		return nil, err
	}

	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBirthday(s scanner) (*model.Birthday, error) {
	var (
		b         model.Birthday
		birthdate string
		comment   sql.NullString
	)

	if err := s.Scan(&b.ID, &b.UserID, &b.FirstName, &b.LastName, &birthdate, &comment); err != nil {
		return nil, err
	}

	date, err := civil.ParseDate(birthdate)
	if err != nil {
		return nil, fmt.Errorf("parsing stored birthdate %q: %w", birthdate, err)
	}
	b.Birthdate = date
	b.Comment = comment.String

	return &b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
