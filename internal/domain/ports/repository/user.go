package repository

import (
	"context"

	"toko-voucher/internal/domain/model"
)

// UserRepository is the persistence port for user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in the assigned ID.
	// Returns domain.ErrAlreadyExists on a username/email conflict.
	Create(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
