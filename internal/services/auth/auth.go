// Package auth содержит логику регистрации, входа и подтверждения адреса пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/stonks/internal/lib/password"
	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/services/mail"
	"github.com/magabrotheeeer/stonks/internal/storage"
)

var (
	// ErrInvalidCredentials неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken ссылка подтверждения повреждена, просрочена или указывает на несуществующего пользователя.
	ErrInvalidToken = errors.New("invalid or expired confirmation token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)

	// ConfirmUser отмечает адрес пользователя подтвержденным.
	ConfirmUser(ctx context.Context, id int64, confirmedOn time.Time) error
}

// TokenMaker подписывает и проверяет токены подтверждения.
type TokenMaker interface {
	Generate(email string) (string, error)
	Parse(token string) (string, error)
}

// Mailer отправляет письма в фоне.
type Mailer interface {
	Dispatch(msg mail.Message)
}

// AuthService отвечает за регистрацию, вход и подтверждение email.
type AuthService struct {
	users    UserRepository
	tokens   TokenMaker
	mailer   Mailer
	baseURL  string
	tokenTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
// baseURL используется для абсолютной ссылки в письме подтверждения.
func NewAuthService(users UserRepository, tokens TokenMaker, mailer Mailer, baseURL string, tokenTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenTTL: tokenTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register сохраняет пользователя с хешем пароля и отправляет письмо подтверждения.
// Повторный email возвращает storage.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "auth.Register"
	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	user := models.User{
		Email:                   email,
		PasswordHash:            hashed,
		RegisteredOn:            now,
		EmailConfirmationSentOn: &now,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	// пользователь уже сохранен, ошибка письма не отменяет регистрацию
	if err := s.sendConfirmation(email); err != nil {
		s.log.Error("failed to prepare confirmation email", slog.String("op", op), sl.Err(err))
	}
	return &user, nil
}

func (s *AuthService) sendConfirmation(email string) error {
	tok, err := s.tokens.Generate(email)
	if err != nil {
		return err
	}
	msg, err := mail.NewConfirmation(email, s.ConfirmURL(tok), s.tokenTTL)
	if err != nil {
		return err
	}
	s.mailer.Dispatch(msg)
	return nil
}

// ConfirmURL возвращает абсолютную ссылку подтверждения для токена.
func (s *AuthService) ConfirmURL(token string) string {
	return s.baseURL + "/users/confirm/" + token
}

// Authenticate проверяет пароль пользователя.
// Неизвестный email и неверный пароль одинаково дают ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "auth.Authenticate"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Confirm подтверждает адрес по токену из письма.
// Для уже подтвержденного адреса возвращает alreadyConfirmed = true без изменений в базе.
func (s *AuthService) Confirm(ctx context.Context, token string) (user *models.User, alreadyConfirmed bool, err error) {
	const op = "auth.Confirm"
	email, err := s.tokens.Parse(token)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if user.EmailConfirmed {
		return user, true, nil
	}

	now := s.now()
	if err := s.users.ConfirmUser(ctx, user.ID, now); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	user.EmailConfirmed = true
	user.EmailConfirmedOn = &now
	return user, false, nil
}

// User возвращает пользователя по ID.
func (s *AuthService) User(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.User"
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
