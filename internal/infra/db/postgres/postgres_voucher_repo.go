package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/domain/model"
	"toko-voucher/internal/domain/ports/repository"
)

var _ repository.VoucherRepository = (*PostgresVoucherRepo)(nil)

type PostgresVoucherRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresVoucherRepo(pool *pgxpool.Pool) *PostgresVoucherRepo {
	return &PostgresVoucherRepo{pool: pool}
}

func (r *PostgresVoucherRepo) Create(ctx context.Context, tx repository.Tx, v *model.Voucher) error {
	const q = `
INSERT INTO vouchers (code, expires_at, user_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id;
`
	row, err := pickRow(ctx, r.pool, tx, q, v.Code, v.ExpiresAt, v.UserID, v.CreatedAt)
	if err != nil {
		return err
	}
	if err := row.Scan(&v.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

func (r *PostgresVoucherRepo) FindByCodeAndOwner(ctx context.Context, tx repository.Tx, code string, userID int64) (*model.Voucher, error) {
	const q = `
SELECT id, code, expires_at, user_id, created_at
  FROM vouchers WHERE code = $1 AND user_id = $2;
`
	row, err := pickRow(ctx, r.pool, tx, q, code, userID)
	if err != nil {
		return nil, err
	}
	return scanVoucher(row)
}

func (r *PostgresVoucherRepo) FindByCodeAndOwnerForUpdate(ctx context.Context, tx repository.Tx, code string, userID int64) (*model.Voucher, error) {
	const q = `
SELECT id, code, expires_at, user_id, created_at
  FROM vouchers WHERE code = $1 AND user_id = $2
   FOR UPDATE;
`
	row, err := pickRow(ctx, r.pool, tx, q, code, userID)
	if err != nil {
		return nil, err
	}
	return scanVoucher(row)
}

func (r *PostgresVoucherRepo) ListByOwner(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Voucher, error) {
	const q = `
SELECT id, code, expires_at, user_id, created_at
  FROM vouchers WHERE user_id = $1
 ORDER BY id;
`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Voucher, 0)
	for rows.Next() {
		var v model.Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.ExpiresAt, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresVoucherRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM vouchers WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresVoucherRepo) CountVouchers(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM vouchers;`)
}

func (r *PostgresVoucherRepo) CountExpired(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM vouchers WHERE expires_at < NOW();`)
}

func (r *PostgresVoucherRepo) countWhere(ctx context.Context, tx repository.Tx, q string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count vouchers: %w", err)
	}
	return n, nil
}

func scanVoucher(row pgx.Row) (*model.Voucher, error) {
	var v model.Voucher
	if err := row.Scan(&v.ID, &v.Code, &v.ExpiresAt, &v.UserID, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	return &v, nil
}
