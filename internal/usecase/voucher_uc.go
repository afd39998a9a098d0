package usecase

import (
	"context"
	"errors"
	"time"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"
	"toko-voucher/internal/infra/logging"
	"toko-voucher/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// The legacy service hardcodes the transaction total instead of taking it
// from the request, so every voucher is worth the same fixed amount. Kept
// as-is; see DESIGN.md.
const (
	fixedTransactionTotal = 2_000_000
	voucherBracketSize    = 2_000_000
	voucherRewardUnit     = 10_000

	voucherLifetimeMonths = 3
	maxCodeAttempts       = 5
)

// Compile-time check
var _ VoucherUseCase = (*voucherUC)(nil)

// VoucherUseCase exposes the voucher lifecycle: list, generate, redeem.
type VoucherUseCase interface {
	ListForUser(ctx context.Context, userID int64) ([]*model.Voucher, error)
	// Generate creates a voucher for the user and returns the computed
	// monetary amount. The code itself is not part of the response contract.
	Generate(ctx context.Context, userID int64) (int64, error)
	Redeem(ctx context.Context, userID int64, code string) error
	Totals(ctx context.Context) (total, expired int, err error)
}

type voucherUC struct {
	users    repository.UserRepository
	vouchers repository.VoucherRepository
	tm       repository.TransactionManager
	now      func() time.Time
	log      *zerolog.Logger
}

func NewVoucherUseCase(users repository.UserRepository, vouchers repository.VoucherRepository, tm repository.TransactionManager, logger *zerolog.Logger) *voucherUC {
	return &voucherUC{
		users:    users,
		vouchers: vouchers,
		tm:       tm,
		now:      time.Now,
		log:      logger,
	}
}

func (u *voucherUC) ListForUser(ctx context.Context, userID int64) ([]*model.Voucher, error) {
	defer logging.TraceDuration(u.log, "VoucherUC.ListForUser")()

	if _, err := u.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, err
	}
	return u.vouchers.ListByOwner(ctx, repository.NoTX, userID)
}

func (u *voucherUC) Generate(ctx context.Context, userID int64) (int64, error) {
	defer logging.TraceDuration(u.log, "VoucherUC.Generate")()

	if _, err := u.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return 0, err
	}

	amount := int64(fixedTransactionTotal/voucherBracketSize) * voucherRewardUnit
	expiresAt := u.now().AddDate(0, voucherLifetimeMonths, 0)

	// Codes are random; retry a handful of times on the unlikely collision.
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateVoucherCode()
		if err != nil {
			return 0, err
		}
		voucher, err := model.NewVoucher(code, expiresAt, userID)
		if err != nil {
			return 0, err
		}
		err = u.vouchers.Create(ctx, repository.NoTX, voucher)
		if err == nil {
			metrics.IncVoucherGenerated()
			u.log.Info().Int64("user_id", userID).Int64("voucher_id", voucher.ID).Msg("voucher generated")
			return amount, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return 0, err
		}
		lastErr = err
	}
	u.log.Error().Err(lastErr).Int64("user_id", userID).Msg("voucher code collisions exhausted retries")
	return 0, lastErr
}

// Redeem consumes the voucher identified by code, scoped to the calling
// user. The lookup and delete run in one transaction with a row lock, so
// two concurrent attempts on the same code cannot both succeed: the loser
// observes the deleted row and gets domain.ErrNotFound. An expired voucher
// is rejected and left in place.
func (u *voucherUC) Redeem(ctx context.Context, userID int64, code string) error {
	defer logging.TraceDuration(u.log, "VoucherUC.Redeem")()

	if _, err := u.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return err
	}

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		voucher, err := u.vouchers.FindByCodeAndOwnerForUpdate(ctx, tx, code, userID)
		if err != nil {
			return err
		}
		if voucher.ExpiredAt(u.now()) {
			return domain.ErrVoucherExpired
		}
		return u.vouchers.Delete(ctx, tx, voucher.ID)
	})

	switch {
	case err == nil:
		metrics.IncVoucherRedeemed()
		u.log.Info().Int64("user_id", userID).Msg("voucher redeemed")
	case errors.Is(err, domain.ErrVoucherExpired):
		metrics.IncVoucherRedeemReject("expired")
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncVoucherRedeemReject("not_found")
	}
	return err
}

func (u *voucherUC) Totals(ctx context.Context) (int, int, error) {
	defer logging.TraceDuration(u.log, "VoucherUC.Totals")()

	total, err := u.vouchers.CountVouchers(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	expired, err := u.vouchers.CountExpired(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	return total, expired, nil
}
