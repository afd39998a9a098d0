package web

import (
	"net/http"
	"time"

	"toko-voucher/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server wires the voucher HTTP API onto a chi router.
type Server struct {
	userUC    usecase.UserUseCase
	voucherUC usecase.VoucherUseCase
	tokens    *TokenManager
	log       *zerolog.Logger
}

func NewServer(userUC usecase.UserUseCase, voucherUC usecase.VoucherUseCase, tokens *TokenManager, logger *zerolog.Logger) *Server {
	return &Server{
		userUC:    userUC,
		voucherUC: voucherUC,
		tokens:    tokens,
		log:       logger,
	}
}

// Router builds the full handler chain: trace id, request log, panic
// recovery and a per-request timeout around every route; the voucher routes
// additionally sit behind the bearer guard.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(10*time.Second))

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(RequireAuth(s.tokens))
		pr.Get("/vouchers", s.handleListVouchers)
		pr.Post("/generate-voucher", s.handleGenerateVoucher)
		pr.Post("/use-voucher", s.handleUseVoucher)
	})

	return r
}
