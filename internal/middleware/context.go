// Package middleware provides the HTTP middleware chain: request ID,
// recovery, timeout, CORS, access logging, and JWT authentication.
package middleware

import (
	"context"
)

// contextKey is a private key type so our context values cannot collide
// with keys from other packages.
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyUser      contextKey = "user"
)

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// RequestIDFromContext reads the request ID from the context, empty when
// absent.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
