package middleware

import (
	"net/http"
	"time"

	"onsite/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All presence computation within a single
// request uses this one "now", so a feed response is internally consistent
// even while the clock moves during the query.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
