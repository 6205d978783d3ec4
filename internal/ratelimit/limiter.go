// Package ratelimit is a fixed-window request limiter with per-action
// budgets, backed by redis in production.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// DefaultLimits budgets each content operation per client per window.
// Generation calls are expensive upstream, so streams get the tightest
// budget.
var DefaultLimits = map[string]ActionConfig{
	"definition":    {Limit: 20, Window: time.Minute},
	"text_art":      {Limit: 20, Window: time.Minute},
	"concepts":      {Limit: 20, Window: time.Minute},
	"random_word":   {Limit: 30, Window: time.Minute},
	"phonosemantic": {Limit: 10, Window: time.Minute},
	"script":        {Limit: 30, Window: time.Minute},
}

type Limiter struct {
	storage Storage
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(storage Storage) *Limiter {
	return &Limiter{storage: storage}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := DefaultLimits[action]
	if !ok {
		// Default limit for unknown actions
		config = ActionConfig{Limit: 60, Window: time.Minute}
	}

	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.storage.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.storage.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}

	resetAt := time.Now().Add(ttl).Unix()
	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     config.Limit,
	}, nil
}
