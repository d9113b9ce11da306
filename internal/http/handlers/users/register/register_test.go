package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/lib/metrics"
	"github.com/magabrotheeeer/stonks/internal/models"
	"github.com/magabrotheeeer/stonks/internal/storage"
)

// Мок сервиса с методом Register
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newHandler(t *testing.T, svc Service) *Handler {
	t.Helper()
	rd, err := web.NewRenderer(web.NewSessions("0d423c8b411e86a9b29ad8bd9907c3b1", false, time.Hour), "USD", newNoopLogger())
	require.NoError(t, err)
	return New(newNoopLogger(), svc, rd, metrics.New(prometheus.NewRegistry()))
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name         string
		values       url.Values
		setupMock    func(m *AuthServiceMock)
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:   "valid registration",
			values: url.Values{"email": {"vitor@email.com"}, "password": {"FlaskIsGreat123"}},
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "vitor@email.com", "FlaskIsGreat123").
					Return(&models.User{ID: 1, Email: "vitor@email.com"}, nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/users/login",
		},
		{
			name:       "invalid email",
			values:     url.Values{"email": {"not-an-email"}, "password": {"FlaskIsGreat123"}},
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusOK,
			wantBody:   InvalidDataMessage,
		},
		{
			name:       "password too short",
			values:     url.Values{"email": {"vitor@email.com"}, "password": {"abc"}},
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusOK,
			wantBody:   InvalidDataMessage,
		},
		{
			name:   "duplicate email",
			values: url.Values{"email": {"vitor@email.com"}, "password": {"FlaskIsGreat123"}},
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "vitor@email.com", "FlaskIsGreat123").
					Return(nil, storage.ErrUserExists).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   InvalidDataMessage,
		},
		{
			name:   "service error",
			values: url.Values{"email": {"vitor@email.com"}, "password": {"FlaskIsGreat123"}},
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMock(svc)
			h := newHandler(t, svc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, postForm(tt.values))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_GetShowsForm(t *testing.T) {
	h := newHandler(t, new(AuthServiceMock))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/register", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User Registration")
}
