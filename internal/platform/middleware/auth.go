package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"onsite/pkg/requestcontext"
)

// TokenValidator validates bearer tokens presented by door scanners.
type TokenValidator interface {
	ValidateToken(tokenString string) (*ScannerClaims, error)
}

// ScannerClaims identifies the scanner installation that signed a token.
type ScannerClaims struct {
	ScannerID string
}

type contextKeyScannerID struct{}

// ContextKeyScannerID is exported for use in handlers and tests.
var ContextKeyScannerID = contextKeyScannerID{}

// GetScannerID retrieves the authenticated scanner ID from the context.
func GetScannerID(ctx context.Context) string {
	scannerID, ok := ctx.Value(ContextKeyScannerID).(string)
	if !ok {
		return ""
	}
	return scannerID
}

// RequireScannerAuth protects the scan upsert endpoint. Scanners sign a
// short-lived HS256 token with the shared key; a lost scan shows wrong
// presence, so rejections are logged loudly.
func RequireScannerAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(r.Context(), "scan rejected - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "scan rejected - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyScannerID, claims.ScannerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
