// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request use the same "now" timestamp,
// so archive entries, audit lines and eligibility checks agree.
package requesttime

import (
	"net/http"

	"github.com/juju/clock"

	"candilib/pkg/requestcontext"
)

// Middleware captures the clock's current time at the start of the request.
func Middleware(clk clock.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clk.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
