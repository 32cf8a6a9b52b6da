package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket regenerates capacity continuously at a steady rate, capped at
// its burst. It is not safe for concurrent use; Limiter serialises access.
type TokenBucket struct {
	limiter *rate.Limiter
	now     time.Time
}

func NewTokenBucket(burst int, perSecond float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:     now,
	}
}

// AdvanceTime moves the bucket clock forward. Moving it backwards is ignored.
func (b *TokenBucket) AdvanceTime(now time.Time) {
	if now.After(b.now) {
		b.now = now
	}
}

// CanConsume reports whether amount tokens are available without consuming them.
func (b *TokenBucket) CanConsume(amount int) bool {
	return b.limiter.TokensAt(b.now) >= float64(amount)
}

// Consume deducts amount tokens. Callers must check CanConsume first.
func (b *TokenBucket) Consume(amount int) {
	b.limiter.AllowN(b.now, amount)
}

func (b *TokenBucket) Available() float64 {
	return b.limiter.TokensAt(b.now)
}

func (b *TokenBucket) Burst() int {
	return b.limiter.Burst()
}
