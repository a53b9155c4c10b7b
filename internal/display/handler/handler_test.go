package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onsite/internal/settings"
	"onsite/internal/settings/store"
)

func newTestRouter(t *testing.T, current settings.Settings) http.Handler {
	t.Helper()
	st := store.NewInMemoryStore()
	require.NoError(t, st.Update(t.Context(), current))

	h := New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestDisplayPageWithoutCodeWord(t *testing.T) {
	router := newTestRouter(t, settings.Settings{RefreshInterval: 15})

	req := httptest.NewRequest(http.MethodGet, "/display", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
	// The JS-context escaper pads interpolated values with spaces.
	assert.Regexp(t, `refreshMs =\s*15\s*\* 1000`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `fetch("/display/feed"`)
}

func TestDisplayPageCodeWordMatch(t *testing.T) {
	router := newTestRouter(t, settings.Settings{CodeWord: "lobby"})

	req := httptest.NewRequest(http.MethodGet, "/display/lobby", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDisplayPageCodeWordMismatch(t *testing.T) {
	router := newTestRouter(t, settings.Settings{CodeWord: "lobby"})

	for _, path := range []string{"/display", "/display/wrong"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestDisplayPageInjectsCustomCSS(t *testing.T) {
	router := newTestRouter(t, settings.Settings{CustomCSS: ".card { border: 1px solid red; }"})

	req := httptest.NewRequest(http.MethodGet, "/display", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "border: 1px solid red")
}
