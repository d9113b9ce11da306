package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stonks/internal/http/web"
	"github.com/magabrotheeeer/stonks/internal/models"
)

type StockServiceMock struct {
	mock.Mock
}

func (m *StockServiceMock) List(ctx context.Context, userID int64) ([]models.Stock, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	rd, err := web.NewRenderer(web.NewSessions("0d423c8b411e86a9b29ad8bd9907c3b1", false, time.Hour), "USD", newNoopLogger())
	require.NoError(t, err)
	return rd
}

func loggedIn(req *http.Request) *http.Request {
	return req.WithContext(web.WithUser(req.Context(), &models.User{ID: 4, Email: "vitor@email.com"}))
}

func TestListHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		stocks     []models.Stock
		err        error
		wantStatus int
		wantBody   []string
	}{
		{
			name: "portfolio with stocks",
			stocks: []models.Stock{
				{ID: 1, UserID: 4, Symbol: "AAPL", NumberOfShares: 23, PurchasePrice: 43217},
				{ID: 2, UserID: 4, Symbol: "COST", NumberOfShares: 16, PurchasePrice: 40678},
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"List of Stocks", "AAPL", "23", "432.17", "COST", "$406.78"},
		},
		{
			name:       "empty portfolio",
			stocks:     []models.Stock{},
			wantStatus: http.StatusOK,
			wantBody:   []string{"No stocks yet"},
		},
		{
			name:       "service error",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"500 - Internal Server Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(StockServiceMock)
			if tt.err != nil {
				svc.On("List", mock.Anything, int64(4)).Return(nil, tt.err).Once()
			} else {
				svc.On("List", mock.Anything, int64(4)).Return(tt.stocks, nil).Once()
			}

			h := New(newNoopLogger(), svc, newRenderer(t))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, loggedIn(httptest.NewRequest(http.MethodGet, "/stocks/", nil)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, s := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), s)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestListHandler_Anonymous(t *testing.T) {
	svc := new(StockServiceMock)
	h := New(newNoopLogger(), svc, newRenderer(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stocks/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
