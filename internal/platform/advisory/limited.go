package advisory

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("advisory rate limit exceeded")

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Limited refuses calls beyond the configured rate instead of queueing them.
type Limited struct {
	next    completer
	limiter *rate.Limiter
}

func NewLimited(next completer, perSec float64, burst int) *Limited {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(perSec)
	if perSec <= 0 {
		limit = rate.Inf
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (l *Limited) Complete(ctx context.Context, system, user string) (string, error) {
	if !l.limiter.Allow() {
		return "", ErrRateLimited
	}
	return l.next.Complete(ctx, system, user)
}
