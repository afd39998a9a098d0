package sched

import (
	"context"
	"time"

	"toko-voucher/internal/infra/metrics"
	"toko-voucher/internal/usecase"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
)

// StatsWorker periodically exports user/voucher totals and connection pool
// state as gauges. It is strictly read-only: expired vouchers are never
// purged, they stay in storage until a redemption attempt rejects them.
type StatsWorker struct {
	interval  time.Duration
	userUC    usecase.UserUseCase
	voucherUC usecase.VoucherUseCase
	pool      *pgxpool.Pool
	log       *zerolog.Logger
}

func NewStatsWorker(interval time.Duration, userUC usecase.UserUseCase, voucherUC usecase.VoucherUseCase, pool *pgxpool.Pool, logger *zerolog.Logger) *StatsWorker {
	statsLog := logger.With().Str("component", "StatsWorker").Logger()
	return &StatsWorker{
		interval:  interval,
		userUC:    userUC,
		voucherUC: voucherUC,
		pool:      pool,
		log:       &statsLog,
	}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	if users, err := w.userUC.Count(ctx); err != nil {
		w.log.Error().Err(err).Msg("count users failed")
	} else {
		metrics.SetUsersTotal(users)
	}

	if total, expired, err := w.voucherUC.Totals(ctx); err != nil {
		w.log.Error().Err(err).Msg("count vouchers failed")
	} else {
		metrics.SetVoucherTotals(total-expired, expired)
	}

	if w.pool != nil {
		stat := w.pool.Stat()
		metrics.SetDBPoolStats(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())
	}
}
