// Package handler exposes the admin settings endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onsite/internal/platform/middleware"
	"onsite/internal/settings"
	"onsite/internal/transport/http/shared"
	dErrors "onsite/pkg/domain-errors"
	"onsite/pkg/requestcontext"
)

// Store persists the display settings document.
type Store interface {
	Load(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, in settings.Settings) error
}

// Handler serves GET and PUT /admin/settings behind the admin token.
type Handler struct {
	logger     *slog.Logger
	store      Store
	adminToken string
}

func New(store Store, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store, adminToken: adminToken}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
		g.Get("/admin/settings", h.handleGet)
		g.Put("/admin/settings", h.handlePut)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "load settings failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load settings"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, current)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	var in settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "decode settings"))
		return
	}

	// "feed" is taken by the feed route, so a display page at
	// /display/feed would be unreachable.
	if in.CodeWord == "feed" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "code word is reserved"))
		return
	}

	in = in.Normalize()
	if err := h.store.Update(r.Context(), in); err != nil {
		h.logger.ErrorContext(r.Context(), "update settings failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "update settings"))
		return
	}

	h.logger.InfoContext(r.Context(), "display settings updated",
		"request_id", requestcontext.RequestID(r.Context()),
		"presence_timeout", in.PresenceTimeout,
		"refresh_interval", in.RefreshInterval,
	)
	shared.WriteJSON(w, http.StatusOK, in)
}
