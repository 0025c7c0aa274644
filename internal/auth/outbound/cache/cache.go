package cache

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/kvstore"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const cooldownValue = "1"

func keyChallenge(subject string) string { return "otp:" + subject }
func keyCooldown(subject string) string  { return "otp:cooldown:" + subject }
func keyAttempts(subject string) string  { return "otp:attempts:" + subject }

// Cache keeps OTP challenge state in a kvstore.Store.
type Cache struct {
	store kvstore.Store
	ins   instrument.Instrumentation
}

func New(store kvstore.Store, ins instrument.Instrumentation) *Cache {
	return &Cache{store: store, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("auth.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateChallenge writes the cooldown marker, the challenge and a zeroed
// attempt counter in one step. It reports false, writing nothing, while the
// cooldown marker exists.
func (c *Cache) CreateChallenge(ctx context.Context, ch entity.Challenge) (created bool, err error) {
	ctx, span := c.startSpan(ctx, "CreateChallenge")
	defer func() { c.endSpan(span, err) }()

	return c.store.SetIfAbsent(ctx,
		kvstore.Entry{Key: keyCooldown(ch.Subject), Value: cooldownValue, TTL: ch.Cooldown},
		kvstore.Entry{Key: keyChallenge(ch.Subject), Value: ch.Digest, TTL: ch.TTL},
		kvstore.Entry{Key: keyAttempts(ch.Subject), Value: "0", TTL: ch.TTL},
	)
}

// GetChallenge returns the stored digest. found is false when no challenge exists.
func (c *Cache) GetChallenge(ctx context.Context, subject string) (digest string, found bool, err error) {
	ctx, span := c.startSpan(ctx, "GetChallenge")
	defer func() { c.endSpan(span, err) }()

	digest, err = c.store.Get(ctx, keyChallenge(subject))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return digest, true, nil
}

// IncrAttempts counts one verification attempt and re-applies ttl so the
// counter never outlives its challenge window.
func (c *Cache) IncrAttempts(ctx context.Context, subject string, ttl time.Duration) (n int64, err error) {
	ctx, span := c.startSpan(ctx, "IncrAttempts")
	defer func() { c.endSpan(span, err) }()

	n, err = c.store.Incr(ctx, keyAttempts(subject))
	if err != nil {
		return 0, err
	}

	if err = c.store.Expire(ctx, keyAttempts(subject), ttl); err != nil {
		return 0, err
	}

	return n, nil
}

// DeleteChallenge removes the challenge and its counter. removed reports
// whether this call deleted the challenge, so exactly one of several racing
// callers observes true.
func (c *Cache) DeleteChallenge(ctx context.Context, subject string) (removed bool, err error) {
	ctx, span := c.startSpan(ctx, "DeleteChallenge")
	defer func() { c.endSpan(span, err) }()

	n, err := c.store.Delete(ctx, keyChallenge(subject))
	if err != nil {
		return false, err
	}

	if _, err = c.store.Delete(ctx, keyAttempts(subject)); err != nil {
		return n == 1, err
	}

	return n == 1, nil
}
