package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdays/birthdays-go/internal/model"
)

var birthdayColumns = []string{"id", "user_id", "first_name", "last_name", "birthdate", "comment"}

func newBirthdayRepoWithMock(t *testing.T, dialect Dialect) (*BirthdayRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBirthdayRepository(db, dialect), mock
}

func ptr[T any](v T) *T { return &v }

func TestBirthdayListByUser_ScopedAndOrdered(t *testing.T) {
	repo, mock := newBirthdayRepoWithMock(t, DialectPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, first_name, last_name, TO_CHAR(birthdate, 'YYYY-MM-DD'), comment FROM birthdays WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(birthdayColumns).
			AddRow(int64(1), int64(1), "Bob", "Lee", "1990-05-02", nil).
			AddRow(int64(2), int64(1), "Ann", "Ray", "1985-12-31", "sister"))

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, civil.Date{Year: 1990, Month: 5, Day: 2}, got[0].Birthdate)
	assert.Equal(t, "", got[0].Comment)
	assert.Equal(t, "sister", got[1].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBirthdayCreate_MySQL(t *testing.T) {
	repo, mock := newBirthdayRepoWithMock(t, DialectMySQL)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO birthdays (user_id, first_name, last_name, birthdate, comment) VALUES (?, ?, ?, ?, ?)`)).
		WithArgs(int64(1), "Bob", "Lee", "1990-05-02", nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	b := &model.Birthday{UserID: 1, FirstName: "Bob", LastName: "Lee", Birthdate: civil.Date{Year: 1990, Month: 5, Day: 2}}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(11), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBirthdayUpdate_ConditionalStatement(t *testing.T) {
	repo, mock := newBirthdayRepoWithMock(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE birthdays SET .* WHERE id = \? AND user_id = \?`).
		WithArgs("Robert", nil, nil, nil, int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM birthdays WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows(birthdayColumns).
			AddRow(int64(5), int64(1), "Robert", "Lee", "1990-05-02", nil))
	mock.ExpectCommit()

	got, err := repo.Update(context.Background(), 1, 5, BirthdayChanges{FirstName: ptr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.FirstName)
	assert.Equal(t, "Lee", got.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBirthdayUpdate_NotOwned(t *testing.T) {
	repo, mock := newBirthdayRepoWithMock(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE birthdays SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 2, 5, BirthdayChanges{FirstName: ptr("Mallory")})
	assert.ErrorIs(t, err, ErrBirthdayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBirthdayDelete_DBError(t *testing.T) {
	repo, mock := newBirthdayRepoWithMock(t, DialectMySQL)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM birthdays WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(5), int64(1)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), 1, 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBirthdayNotFound)
}

func TestBirthdayRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	users := NewUserRepository(db.DB, db.Dialect)
	repo := NewBirthdayRepository(db.DB, db.Dialect)
	ctx := context.Background()

	alice := &model.User{Email: "alice@example.com", PasswordHash: "x"}
	bob := &model.User{Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	empty, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a1 := &model.Birthday{UserID: alice.ID, FirstName: "Bob", LastName: "Lee", Birthdate: civil.Date{Year: 1990, Month: 5, Day: 2}}
	a2 := &model.Birthday{UserID: alice.ID, FirstName: "Leap", LastName: "Day", Birthdate: civil.Date{Year: 2000, Month: 2, Day: 29}, Comment: "leap year"}
	b1 := &model.Birthday{UserID: bob.ID, FirstName: "Eve", LastName: "Nguyen", Birthdate: civil.Date{Year: 1970, Month: 1, Day: 1}}
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, b1))
	require.NoError(t, repo.Create(ctx, a2))

	aliceList, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Birthday{*a1, *a2}, aliceList)

	bobList, err := repo.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Birthday{*b1}, bobList)

	// Bob cannot see, change or remove Alice's rows.
	_, err = repo.getByID(ctx, repo.db, bob.ID, a1.ID)
	assert.ErrorIs(t, err, ErrBirthdayNotFound)
	_, err = repo.Update(ctx, bob.ID, a1.ID, BirthdayChanges{FirstName: ptr("Mallory")})
	assert.ErrorIs(t, err, ErrBirthdayNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob.ID, a1.ID), ErrBirthdayNotFound)

	newDate := civil.Date{Year: 1991, Month: 6, Day: 3}
	updated, err := repo.Update(ctx, alice.ID, a1.ID, BirthdayChanges{Birthdate: &newDate, Comment: ptr("moved")})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.FirstName)
	assert.Equal(t, newDate, updated.Birthdate)
	assert.Equal(t, "moved", updated.Comment)

	// An update that changes nothing still finds the row.
	same, err := repo.Update(ctx, alice.ID, a1.ID, BirthdayChanges{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	require.NoError(t, repo.Delete(ctx, alice.ID, a1.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, a1.ID), ErrBirthdayNotFound)

	aliceList, err = repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Birthday{*a2}, aliceList)
}
