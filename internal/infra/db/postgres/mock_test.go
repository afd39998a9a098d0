//go:build !integration

package postgres

import (
	"context"
	"errors"
	"time"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"
)

// mockRedis is an in-memory stand-in for the redis client, with call
// counters so tests can assert on cache traffic.
type mockRedis struct {
	store map[string]string
	gets  int
	sets  int
}

func newMockRedis() *mockRedis {
	return &mockRedis{store: make(map[string]string)}
}

func (m *mockRedis) Ping(ctx context.Context) error { return nil }

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.sets++
	switch v := value.(type) {
	case []byte:
		m.store[key] = string(v)
	case string:
		m.store[key] = v
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (string, error) {
	m.gets++
	val, ok := m.store[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return val, nil
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *mockRedis) Close() error { return nil }

// mockUserRepo counts the calls that reach the real repository.
type mockUserRepo struct {
	users       map[int64]*model.User
	findByID    int
	findByEmail int
	countCalls  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	u.ID = int64(len(m.users) + 1)
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	m.findByID++
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.findByEmail++
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.countCalls++
	return len(m.users), nil
}
