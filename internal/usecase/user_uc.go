package usecase

import (
	"context"
	"errors"
	"fmt"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"
	"toko-voucher/internal/infra/logging"
	"toko-voucher/internal/infra/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes account operations used by the HTTP layer.
type UserUseCase interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users      repository.UserRepository
	bcryptCost int
	log        *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, bcryptCost int, logger *zerolog.Logger) *userUC {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userUC{
		users:      users,
		bcryptCost: bcryptCost,
		log:        logger,
	}
}

// Register hashes the password and persists a new account. A username or
// email conflict surfaces as domain.ErrAlreadyExists.
func (u *userUC) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	if password == "" {
		return nil, domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := model.NewUser(username, email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := u.users.Create(ctx, repository.NoTX, user); err != nil {
		u.log.Error().Err(err).Str("email", email).Msg("create user failed")
		return nil, err
	}
	return user, nil
}

// Authenticate looks the account up by email and verifies the password.
// Unknown email yields domain.ErrUserNotFound, a wrong password
// domain.ErrInvalidCredential.
func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Authenticate")()

	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.IncLogin("not_found")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.IncLogin("bad_password")
		return nil, domain.ErrInvalidCredential
	}
	metrics.IncLogin("success")
	return user, nil
}

func (u *userUC) GetByID(ctx context.Context, id int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByID")()
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "UserUC.Count")()
	return u.users.CountUsers(ctx, repository.NoTX)
}
