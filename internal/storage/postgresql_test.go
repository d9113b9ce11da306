package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stonks/internal/models"
)

const (
	insertUserQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hashed,.*RETURNING\s+id$`
	selectUserQuery  = `(?s)^SELECT\s+id,\s*email,\s*password_hashed,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`
	selectByIDQuery  = `(?s)^SELECT\s+id,\s*email,\s*password_hashed,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	confirmQuery     = `(?s)^UPDATE\s+users\s+SET\s+email_confirmed\s*=\s*TRUE.*WHERE\s+id\s*=\s*\$2$`
	insertStockQuery = `(?s)^INSERT\s+INTO\s+stocks\s*\(user_id,\s*stock_symbol,\s*number_of_shares,\s*purchase_price\).*RETURNING\s+id$`
	listStocksQuery  = `(?s)^SELECT\s+id,\s*user_id,\s*stock_symbol,.*FROM\s+stocks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id$`
)

var userColumns = []string{"id", "email", "password_hashed", "registered_on",
	"email_confirmation_sent_on", "email_confirmed", "email_confirmed_on"}

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewWithDB(db), mock
}

func newUser() models.User {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return models.User{
		Email:                   "vitor@email.com",
		PasswordHash:            "$2a$10$hash",
		RegisteredOn:            now,
		EmailConfirmationSentOn: &now,
	}
}

func TestCreateUser_Success(t *testing.T) {
	s, mock := newStorageWithMock(t)
	u := newUser()

	mock.ExpectBegin()
	mock.ExpectQuery(insertUserQuery).
		WithArgs(u.Email, u.PasswordHash, u.RegisteredOn, sqlmock.AnyArg(), false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	id, err := s.CreateUser(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestCreateUser_DuplicateEmailRollsBack(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertUserQuery).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_users_email"})
	mock.ExpectRollback()

	id, err := s.CreateUser(context.Background(), newUser())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Zero(t, id)
}

func TestCreateUser_DBError(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertUserQuery).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := s.CreateUser(context.Background(), newUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
	assert.Contains(t, err.Error(), "storage.CreateUser: db down")
}

func TestCreateUser_CanceledContext(t *testing.T) {
	s, _ := newStorageWithMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateUser(ctx, newUser())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetUserByEmail_Found(t *testing.T) {
	s, mock := newStorageWithMock(t)
	registered := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("vitor@email.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "vitor@email.com", "$2a$10$hash", registered, registered, false, nil))

	u, err := s.GetUserByEmail(context.Background(), "vitor@email.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "vitor@email.com", u.Email)
	assert.False(t, u.EmailConfirmed)
	require.NotNil(t, u.EmailConfirmationSentOn)
	assert.Nil(t, u.EmailConfirmedOn)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("ghost@email.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	u, err := s.GetUserByEmail(context.Background(), "ghost@email.com")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser_Confirmed(t *testing.T) {
	s, mock := newStorageWithMock(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectByIDQuery).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(3), "a@b.com", "h", ts, ts, true, ts))

	u, err := s.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, u.EmailConfirmed)
	require.NotNil(t, u.EmailConfirmedOn)
	assert.Equal(t, ts, *u.EmailConfirmedOn)
}

func TestConfirmUser(t *testing.T) {
	ts := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(confirmQuery).
			WithArgs(ts, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.ConfirmUser(context.Background(), 3, ts))
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(confirmQuery).
			WithArgs(ts, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.ConfirmUser(context.Background(), 99, ts), ErrUserNotFound)
	})
}

func TestCreateStock(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(insertStockQuery).
		WithArgs(int64(1), "AAPL", int64(16), int64(40678)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := s.CreateStock(context.Background(), models.Stock{
		UserID: 1, Symbol: "AAPL", NumberOfShares: 16, PurchasePrice: 40678,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestListStocks(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(listStocksQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "stock_symbol", "number_of_shares", "purchase_price"}).
			AddRow(int64(1), int64(1), "AAPL", int64(23), int64(43217)).
			AddRow(int64(2), int64(1), "SBUX", int64(100), int64(4567)))

	stocks, err := s.ListStocks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
	assert.Equal(t, int64(4567), stocks[1].PurchasePrice)
}

func TestListStocks_Empty(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(listStocksQuery).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "stock_symbol", "number_of_shares", "purchase_price"}))

	stocks, err := s.ListStocks(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, stocks)
	assert.Empty(t, stocks)
}
