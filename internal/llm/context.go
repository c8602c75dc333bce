package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	sessionKey contextKey = "llm_session"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithSession attaches the tutoring session id a request serves.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionFrom returns the session id attached by WithSession, or "".
func SessionFrom(ctx context.Context) string {
	v, _ := ctx.Value(sessionKey).(string)
	return v
}

// endUser is the opaque id sent to providers for abuse monitoring. It is
// derived from the session so no student identifier leaves the process.
func endUser(ctx context.Context) string {
	id := SessionFrom(ctx)
	if id == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(id))
	return "didi-" + hex.EncodeToString(sum[:8])
}
