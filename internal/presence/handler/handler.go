// Package handler exposes the presence HTTP surface: the display feed
// the page polls and the upsert endpoint door scanners call.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"onsite/internal/platform/middleware"
	"onsite/internal/presence/models"
	"onsite/internal/transport/http/shared"
	dErrors "onsite/pkg/domain-errors"
	"onsite/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/presence-mocks.go -package=mocks Service

// Service defines the presence operations the HTTP layer needs.
type Service interface {
	Feed(ctx context.Context) (models.Feed, error)
	RecordScan(ctx context.Context, personID uuid.UUID, door string, seenAt time.Time) error
}

// Handler handles the feed and scan endpoints.
type Handler struct {
	logger    *slog.Logger
	presence  Service
	validator middleware.TokenValidator
}

// New creates a new presence Handler. validator may be nil when scanner
// auth is not configured; the scan route is then not registered.
func New(presence Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		presence:  presence,
		validator: validator,
	}
}

// Register registers the presence routes with the chi router. The
// request-scoped middleware (recovery, request ID, request time, logging)
// is applied once at the top-level router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/display/feed", h.handleFeed)

	if h.validator != nil {
		r.Group(func(g chi.Router) {
			g.Use(middleware.RequireScannerAuth(h.validator, h.logger))
			g.Post("/presence/scan", h.handleScan)
		})
	}
}

// handleFeed serves the display document. Computed fresh on every call;
// the no-store header keeps every intermediary from serving yesterday's
// roster to a wall display.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	feed, err := h.presence.Feed(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "feed computation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0")
	shared.WriteJSON(w, http.StatusOK, feed)
}

// scanRequest is the upsert payload from a door scanner.
type scanRequest struct {
	PersonID  uuid.UUID `json:"person_id"`
	Door      string    `json:"door"`
	Timestamp int64     `json:"timestamp"` // epoch seconds of the badge swipe
}

// handleScan applies one door scan.
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid scan payload",
			"request_id", requestID,
			"scanner_id", middleware.GetScannerID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	seenAt := time.Time{}
	if req.Timestamp > 0 {
		seenAt = time.Unix(req.Timestamp, 0)
	}

	if err := h.presence.RecordScan(ctx, req.PersonID, req.Door, seenAt); err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "scan rejected",
				"request_id", requestID,
				"scanner_id", middleware.GetScannerID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to record scan",
			"request_id", requestID,
			"scanner_id", middleware.GetScannerID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to record scan"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
