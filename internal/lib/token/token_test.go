package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewMaker(testSecret, SubjectEmailConfirmation, time.Hour)

	tests := []struct {
		name  string
		email string
	}{
		{name: "plain address", email: "vitor@email.com"},
		{name: "address with plus", email: "user+stocks@example.org"},
		{name: "subdomain", email: "a.b@mail.example.co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := maker.Generate(tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, tok)

			email, err := maker.Parse(tok)
			require.NoError(t, err)
			assert.Equal(t, tt.email, email)
		})
	}
}

func TestMaker_Parse_InvalidTokens(t *testing.T) {
	maker := NewMaker(testSecret, SubjectEmailConfirmation, time.Hour)

	valid, err := maker.Generate("vitor@email.com")
	require.NoError(t, err)

	expired, err := NewMaker(testSecret, SubjectEmailConfirmation, -time.Minute).Generate("vitor@email.com")
	require.NoError(t, err)

	wrongKey, err := NewMaker("wrong_secret_key", SubjectEmailConfirmation, time.Hour).Generate("vitor@email.com")
	require.NoError(t, err)

	wrongSubject, err := NewMaker(testSecret, "password-reset", time.Hour).Generate("vitor@email.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: wrongKey},
		{name: "wrong subject", token: wrongSubject},
		{name: "tampered token", token: valid + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := maker.Parse(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Empty(t, email)
		})
	}
}

func TestMaker_Expiration(t *testing.T) {
	maker := NewMaker(testSecret, SubjectEmailConfirmation, time.Hour)
	issued := time.Now()
	maker.now = func() time.Time { return issued }

	tok, err := maker.Generate("vitor@email.com")
	require.NoError(t, err)

	maker.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = maker.Parse(tok)
	require.NoError(t, err)

	maker.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = maker.Parse(tok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}
