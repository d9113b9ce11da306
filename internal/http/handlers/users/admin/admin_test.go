package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stonks/internal/http/web"
)

func TestAdminHandler_Forbidden(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	rd, err := web.NewRenderer(web.NewSessions("0d423c8b411e86a9b29ad8bd9907c3b1", false, time.Hour), "USD", log)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	New(log, rd).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/admin", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "403 - Forbidden")
}
