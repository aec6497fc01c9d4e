package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// ContextKey is a private key type for context values set by this package.
type ContextKey string

// Context keys for values the middleware chain attaches to requests.
const (
	// ProfileIDContextKey is the context key for the learner profile ID.
	ProfileIDContextKey ContextKey = "profileID"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a fresh trace ID to the context. Handlers and the error
// responder use it to correlate log lines with client-visible responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SetProfileID stores the resolved learner profile on the context.
func SetProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ProfileIDContextKey, profileID)
}

// GetProfileID retrieves the learner profile from the context. The profile
// middleware always sets one, so an empty return means the middleware chain
// was not applied.
func GetProfileID(ctx context.Context) string {
	profileID, ok := ctx.Value(ProfileIDContextKey).(string)
	if !ok {
		return ""
	}
	return profileID
}

// generateTraceID creates a random trace ID for request tracking. If the
// random source fails it falls back to a timestamp-derived value rather
// than a static one, so concurrent requests stay distinguishable.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		now := time.Now()
		return fmt.Sprintf("%016x%08x%08x",
			uint64(now.UnixNano()),
			uint32(now.Nanosecond()),
			uint32(now.Unix()))
	}
	return hex.EncodeToString(b)
}
