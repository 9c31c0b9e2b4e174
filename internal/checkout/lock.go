package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
	"github.com/angelmondragon/marketplace-checkout/pkg/redis"
)

const (
	defaultLockTTL     = 30 * time.Second
	lockReleaseTimeout = 2 * time.Second
)

type redisLocker struct {
	store redis.LockStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewRedisLocker returns a Locker backed by a Redis SETNX key per cart.
func NewRedisLocker(store redis.LockStore, ttl time.Duration, logg *logger.Logger) (Locker, error) {
	if store == nil {
		return nil, fmt.Errorf("lock store required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &redisLocker{store: store, ttl: ttl, logg: logg}, nil
}

func (l *redisLocker) Acquire(ctx context.Context, cartID uuid.UUID) (func(), error) {
	key := l.store.CheckoutLockKey(cartID.String())
	token := uuid.NewString()

	ok, err := l.store.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return noopRelease, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !ok {
		return noopRelease, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress for cart").
			WithDetails(map[string]any{"cart_id": cartID.String()})
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()
		released, err := l.store.ReleaseIfOwner(releaseCtx, key, token)
		if l.logg == nil {
			return
		}
		if err != nil {
			l.logg.Error(ctx, "failed to release checkout lock", err)
			return
		}
		if !released {
			l.logg.Warn(ctx, "checkout lock expired before release")
		}
	}, nil
}

func noopRelease() {}
