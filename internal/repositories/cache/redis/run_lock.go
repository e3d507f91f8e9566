package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "tcl:lock:"

// releaseScript deletes the key only while it still holds our token, so an expired lock
// that was picked up by another instance is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RunLock is a single-key Redis lock with a TTL.
type RunLock struct {
	client   goredis.Cmdable
	ttl      time.Duration
	newToken func() string
}

var _ portssvc.RunLocker = (*RunLock)(nil)

// NewRunLock creates a lock whose keys expire after ttl even if the holder dies.
func NewRunLock(client goredis.Cmdable, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Acquire takes the lock for key or returns ErrAccrualInProgress when it is already held.
func (l *RunLock) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	redisKey := keyPrefix + key
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire accrual lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccrualInProgress, key)
	}

	release := func(ctx context.Context) error {
		deleted, err := l.client.Eval(ctx, releaseScript, []string{redisKey}, token).Int64()
		if err != nil {
			return fmt.Errorf("release accrual lock %s: %w", key, err)
		}
		if deleted == 0 {
			slog.WarnContext(ctx, "Accrual lock expired before release", slog.String("key", key))
		}
		return nil
	}
	return release, nil
}
