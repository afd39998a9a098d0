package model

import (
	"time"

	"toko-voucher/internal/domain"
)

// Voucher is a single-use discount code owned by one user. A voucher has
// no stored state flag: it is active until its expiry passes, and a
// successful redemption removes the row entirely.
type Voucher struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expirationDate"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewVoucher(code string, expiresAt time.Time, userID int64) (*Voucher, error) {
	if code == "" || userID <= 0 || expiresAt.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	return &Voucher{
		Code:      code,
		ExpiresAt: expiresAt,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}

// ExpiredAt reports whether the voucher is past its expiry at the given instant.
func (v *Voucher) ExpiredAt(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
