// Package handler serves the wall display page. The page is a static
// shell; all live data arrives via the feed endpoint it polls.
package handler

import (
	"context"
	"crypto/subtle"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onsite/internal/settings"
	"onsite/internal/transport/http/shared"
	dErrors "onsite/pkg/domain-errors"
	"onsite/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

// SettingsSource loads the current display configuration.
type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Handler renders the display page.
type Handler struct {
	logger   *slog.Logger
	settings SettingsSource
	tmpl     *template.Template
}

func New(source SettingsSource, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		settings: source,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/display", h.handlePage)
	r.Get("/display/{codeWord}", h.handlePage)
}

type pageData struct {
	RefreshInterval    int
	BackgroundImageURL string
	CustomCSS          template.CSS
}

// handlePage gates on the configured code word, then renders the shell.
// With no code word configured any display URL works; once one is set,
// only the matching path does.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "load display settings failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load settings"))
		return
	}

	if current.CodeWord != "" {
		given := chi.URLParam(r, "codeWord")
		if subtle.ConstantTimeCompare([]byte(given), []byte(current.CodeWord)) != 1 {
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "unknown display"))
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	err = h.tmpl.ExecuteTemplate(w, "display.html", pageData{
		RefreshInterval:    current.RefreshInterval,
		BackgroundImageURL: current.BackgroundImageURL,
		CustomCSS:          template.CSS(current.CustomCSS),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "render display page failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
}
