package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(loginsTotal, usersTotal) }

var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by outcome (success/not_found/bad_password).",
		},
		[]string{"outcome"},
	)

	usersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Current number of registered users.",
		},
	)
)

func IncLogin(outcome string) {
	loginsTotal.WithLabelValues(norm(outcome)).Inc()
}

func SetUsersTotal(n int) { usersTotal.Set(float64(n)) }
