// Package token реализует подписанные токены подтверждения email.
//
// Токен — это JWT (HS256) с адресом почты в claims и ограниченным сроком жизни.
// Поле Subject играет роль "соли": токен, выпущенный для одной цели,
// не принимается для другой даже при общем секретном ключе.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectEmailConfirmation — назначение токенов подтверждения email.
const SubjectEmailConfirmation = "email-confirmation"

// ErrInvalid возвращается для поддельных, просроченных и чужих токенов.
var ErrInvalid = errors.New("token is invalid or expired")

// Claims описывает данные, хранящиеся в токене подтверждения.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Maker выпускает и проверяет токены для одного назначения.
type Maker struct {
	secretKey []byte
	subject   string
	ttl       time.Duration
	now       func() time.Time
}

// NewMaker создаёт Maker с секретным ключом, назначением и временем жизни токена.
func NewMaker(secretKey, subject string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: []byte(secretKey),
		subject:   subject,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Generate создаёт токен для адреса email.
func (m *Maker) Generate(email string) (string, error) {
	const op = "token.Generate"
	now := m.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   m.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Parse проверяет подпись, срок жизни и назначение токена и возвращает email.
func (m *Maker) Parse(tokenStr string) (string, error) {
	const op = "token.Parse"
	if strings.TrimSpace(tokenStr) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalid)
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(m.subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalid)
	}
	return claims.Email, nil
}
