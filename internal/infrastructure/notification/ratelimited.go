package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the delivery transport a rate limiter can wrap.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RateLimited wraps a Sender with a token bucket so an alert storm cannot
// flood the notification channel. Suppressed sends are logged and reported
// as success; the event itself is already persisted upstream.
type RateLimited struct {
	next    Sender
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRateLimited wraps next with a per-minute rate and burst allowance.
// A non-positive rate disables limiting.
func NewRateLimited(next Sender, perMinute, burst int, logger *zap.Logger) *RateLimited {
	var limiter *rate.Limiter
	if perMinute > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
	}
	return &RateLimited{
		next:    next,
		limiter: limiter,
		logger:  logger,
	}
}

// Send forwards the notification unless the bucket is exhausted.
func (r *RateLimited) Send(ctx context.Context, to, subject, body string) error {
	if r.limiter != nil && !r.limiter.Allow() {
		r.logger.Warn("notification suppressed by rate limit",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}
	return r.next.Send(ctx, to, subject, body)
}
