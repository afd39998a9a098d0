//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu        sync.RWMutex
	store     map[int64]*model.User
	nextID    int64
	createErr error // used by tests to simulate insert failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User), nextID: 1}
}

func (m *memUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memVoucherRepo is the in-memory voucher store for unit tests.
type memVoucherRepo struct {
	mu        sync.RWMutex
	store     map[int64]*model.Voucher
	nextID    int64
	createErr error
	// codeCollisions makes the first N creates fail with ErrAlreadyExists.
	codeCollisions int
}

func newMemVoucherRepo() *memVoucherRepo {
	return &memVoucherRepo{store: make(map[int64]*model.Voucher), nextID: 1}
}

func (m *memVoucherRepo) Create(ctx context.Context, tx repository.Tx, v *model.Voucher) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codeCollisions > 0 {
		m.codeCollisions--
		return domain.ErrAlreadyExists
	}
	for _, existing := range m.store {
		if existing.Code == v.Code {
			return domain.ErrAlreadyExists
		}
	}
	v.ID = m.nextID
	m.nextID++
	cp := *v
	m.store[v.ID] = &cp
	return nil
}

func (m *memVoucherRepo) FindByCodeAndOwner(ctx context.Context, tx repository.Tx, code string, userID int64) (*model.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.store {
		if v.Code == code && v.UserID == userID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memVoucherRepo) FindByCodeAndOwnerForUpdate(ctx context.Context, tx repository.Tx, code string, userID int64) (*model.Voucher, error) {
	return m.FindByCodeAndOwner(ctx, tx, code, userID)
}

func (m *memVoucherRepo) ListByOwner(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Voucher, 0)
	for id := int64(1); id < m.nextID; id++ {
		if v, ok := m.store[id]; ok && v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memVoucherRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memVoucherRepo) CountVouchers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memVoucherRepo) CountExpired(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, v := range m.store {
		if v.ExpiredAt(now) {
			n++
		}
	}
	return n, nil
}

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}
