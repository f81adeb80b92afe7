// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Values are set by middleware and read by services, so services never import
// net/http. Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithPrincipal(ctx, requestcontext.Principal{Subject: "...", Level: requestcontext.LevelAdmin})
package requestcontext

import (
	"context"
	"time"
)

type (
	principalKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyPrincipal   = principalKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Level is the access level carried by a bearer token.
type Level string

const (
	LevelCandidate Level = "candidat"
	LevelAdmin     Level = "admin"
)

// Principal identifies the authenticated caller. For candidates Subject is
// the candidate ID; for administrators it is the admin identifier.
type Principal struct {
	Subject string
	Email   string
	Level   Level
}

// IsZero reports whether no principal was set.
func (p Principal) IsZero() bool {
	return p.Subject == ""
}

// Actor returns the identifier recorded as acting user in archives and audit
// entries.
func (p Principal) Actor() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Subject
}

// -----------------------------------------------------------------------------
// Auth context
// -----------------------------------------------------------------------------

// CurrentPrincipal retrieves the authenticated caller.
// Returns the zero value if not set.
func CurrentPrincipal(ctx context.Context) Principal {
	if p, ok := ctx.Value(ContextKeyPrincipal).(Principal); ok {
		return p
	}
	return Principal{}
}

// WithPrincipal injects the authenticated caller into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Batch jobs that need one consistent time for a whole run
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
