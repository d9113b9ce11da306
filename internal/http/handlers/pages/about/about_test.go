package about

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stonks/internal/http/web"
)

func TestAboutHandler_FlashesWelcome(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	rd, err := web.NewRenderer(web.NewSessions("0d423c8b411e86a9b29ad8bd9907c3b1", false, time.Hour), "USD", log)
	require.NoError(t, err)

	h, err := New(log, rd)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "flash-"+web.FlashInfo)
	assert.Contains(t, body, WelcomeMessage)
	assert.Contains(t, body, "<strong>Stonks</strong>")
	assert.Equal(t, 1, strings.Count(body, WelcomeMessage))
}
