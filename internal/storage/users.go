package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/stonks/internal/models"
)

// CreateUser сохраняет нового пользователя в транзакции и возвращает его ID.
//
// При нарушении уникальности email транзакция откатывается и возвращается ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (email, password_hashed, registered_on,
			      email_confirmation_sent_on, email_confirmed, email_confirmed_on)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err = tx.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.RegisteredOn,
		user.EmailConfirmationSentOn, user.EmailConfirmed, user.EmailConfirmedOn).Scan(&newID)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, email, password_hashed, registered_on, email_confirmation_sent_on,
			      email_confirmed, email_confirmed_on
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, email, password_hashed, registered_on, email_confirmation_sent_on,
			      email_confirmed, email_confirmed_on
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var sentOn, confirmedOn sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.RegisteredOn,
		&sentOn, &u.EmailConfirmed, &confirmedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sentOn.Valid {
		u.EmailConfirmationSentOn = &sentOn.Time
	}
	if confirmedOn.Valid {
		u.EmailConfirmedOn = &confirmedOn.Time
	}
	return u, nil
}

// ConfirmUser отмечает email пользователя как подтверждённый.
func (s *Storage) ConfirmUser(ctx context.Context, id int64, confirmedOn time.Time) error {
	const op = "storage.ConfirmUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET email_confirmed = TRUE, email_confirmed_on = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, confirmedOn, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}
