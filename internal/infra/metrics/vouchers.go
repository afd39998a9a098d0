package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		vouchersGeneratedTotal,
		vouchersRedeemedTotal,
		voucherRedeemRejectsTotal,
		vouchersTotal,
	)
}

var (
	vouchersGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vouchers_generated_total",
			Help: "Total number of vouchers created.",
		},
	)

	vouchersRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vouchers_redeemed_total",
			Help: "Total number of vouchers successfully redeemed and removed.",
		},
	)

	voucherRedeemRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_redeem_rejects_total",
			Help: "Redemption attempts rejected, by reason.",
		},
		[]string{"reason"}, // 'expired', 'not_found'
	)

	vouchersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vouchers_total",
			Help: "Current number of stored vouchers by state.",
		},
		[]string{"state"}, // 'active', 'expired'
	)
)

func IncVoucherGenerated() { vouchersGeneratedTotal.Inc() }
func IncVoucherRedeemed()  { vouchersRedeemedTotal.Inc() }

func IncVoucherRedeemReject(reason string) {
	voucherRedeemRejectsTotal.WithLabelValues(norm(reason)).Inc()
}

func SetVoucherTotals(active, expired int) {
	vouchersTotal.WithLabelValues("active").Set(float64(active))
	vouchersTotal.WithLabelValues("expired").Set(float64(expired))
}
