// Package limiter implements Redis-backed request rate limiting for the
// authentication endpoints.
package limiter

import (
	"context"
	"time"
)

// LimitResult is the outcome of one limit check.
type LimitResult struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int64         `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
}

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*LimitResult, error)
	AllowN(ctx context.Context, key string, n int64) (*LimitResult, error)
	Reset(ctx context.Context, key string) error
}

// Config holds the limiter parameters: Rate tokens are refilled per
// Window, up to Burst capacity.
type Config struct {
	Rate      int64         `json:"rate"`
	Window    time.Duration `json:"window"`
	Burst     int64         `json:"burst"`
	KeyPrefix string        `json:"key_prefix"`
}
