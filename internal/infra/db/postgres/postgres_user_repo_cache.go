package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"
	"toko-voucher/internal/infra/metrics"
	red "toko-voucher/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator is a read-through cache over the user repository.
// Only the id lookup is cached: that is the per-request guard path. Email
// lookups feed the login flow, which needs the password hash, and the hash
// is deliberately excluded from the serialized form.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &userRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func userIDKey(id int64) string { return fmt.Sprintf("user:id:%d", id) }

func (d *userRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	return d.inner.Create(ctx, tx, u)
}

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	key := userIDKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &user, nil
		}
	}

	metrics.IncCacheRequest("user", "miss")
	user, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(user); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return user, nil
}

// FindByEmail bypasses the cache: the login flow compares the stored hash.
func (d *userRepoCacheDecorator) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	return d.inner.FindByEmail(ctx, tx, email)
}

// CountUsers bypasses the cache.
func (d *userRepoCacheDecorator) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountUsers(ctx, tx)
}
