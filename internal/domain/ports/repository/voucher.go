package repository

import (
	"context"

	"toko-voucher/internal/domain/model"
)

// VoucherRepository is the persistence port for vouchers.
type VoucherRepository interface {
	// Create inserts a new voucher and fills in the assigned ID.
	// Returns domain.ErrAlreadyExists on a code collision.
	Create(ctx context.Context, tx Tx, v *model.Voucher) error
	// FindByCodeAndOwner returns the voucher matching both the code and the
	// owning user, or domain.ErrNotFound. A voucher owned by someone else is
	// indistinguishable from a missing one.
	FindByCodeAndOwner(ctx context.Context, tx Tx, code string, userID int64) (*model.Voucher, error)
	// FindByCodeAndOwnerForUpdate is the same lookup with a row lock, for use
	// inside a redemption transaction.
	FindByCodeAndOwnerForUpdate(ctx context.Context, tx Tx, code string, userID int64) (*model.Voucher, error)
	ListByOwner(ctx context.Context, tx Tx, userID int64) ([]*model.Voucher, error)
	Delete(ctx context.Context, tx Tx, id int64) error
	CountVouchers(ctx context.Context, tx Tx) (int, error)
	CountExpired(ctx context.Context, tx Tx) (int, error)
}
