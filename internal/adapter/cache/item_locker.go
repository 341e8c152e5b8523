package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

const lockKeyPrefix = "rental:lock:item:"

// releaseScript only deletes keys still holding our token, so an expired
// lock that someone else re-acquired is left alone.
const releaseScript = `
local released = 0
for _, key in ipairs(KEYS) do
	if redis.call("GET", key) == ARGV[1] then
		released = released + redis.call("DEL", key)
	end
end
return released
`

type ItemLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
	newToken   func() string
	log        *zap.Logger
}

type LockerOption func(*ItemLocker)

func WithRetries(retries int, delay time.Duration) LockerOption {
	return func(l *ItemLocker) {
		l.retries = retries
		l.retryDelay = delay
	}
}

func WithTokenSource(newToken func() string) LockerOption {
	return func(l *ItemLocker) {
		l.newToken = newToken
	}
}

func NewItemLocker(client *redis.Client, ttl time.Duration, log *zap.Logger, opts ...LockerOption) *ItemLocker {
	l := &ItemLocker{
		client:     client,
		ttl:        ttl,
		retries:    20,
		retryDelay: 50 * time.Millisecond,
		newToken:   uuid.NewString,
		log:        log,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Lock takes one key per item, always in sorted order so two callers never wait on each other crosswise.
func (l *ItemLocker) Lock(ctx context.Context, itemIDs []string) (func(), error) {
	keys := make([]string, 0, len(itemIDs))
	for _, id := range domain.NormalizeItems(itemIDs) {
		keys = append(keys, lockKeyPrefix+id)
	}

	token := l.newToken()

	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: waiting for item lock: %w", domain.ErrStoreUnavailable, ctx.Err())
			case <-time.After(l.retryDelay):
			}
		}

		acquired, err := l.tryLock(ctx, keys, token)
		if err != nil {
			return nil, fmt.Errorf("%w: item lock: %w", domain.ErrStoreUnavailable, err)
		}

		if acquired {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				l.release(releaseCtx, keys, token)
			}, nil
		}
	}

	l.log.Warn("Item lock still held by another request", zap.Strings("keys", keys))
	return nil, fmt.Errorf("%w: items are being booked by another request", domain.ErrStoreUnavailable)
}

func (l *ItemLocker) tryLock(ctx context.Context, keys []string, token string) (bool, error) {
	for i, key := range keys {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.release(ctx, keys[:i], token)
			return false, err
		}

		if !ok {
			l.release(ctx, keys[:i], token)
			return false, nil
		}
	}

	return true, nil
}

func (l *ItemLocker) release(ctx context.Context, keys []string, token string) {
	if len(keys) == 0 {
		return
	}

	if err := l.client.Eval(ctx, releaseScript, keys, token).Err(); err != nil {
		l.log.Warn("Failed to release item lock", zap.Strings("keys", keys), zap.Error(err))
	}
}

// NoopLocker is used when Redis is not configured; the database exclusion constraint still applies.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, []string) (func(), error) {
	return func() {}, nil
}
