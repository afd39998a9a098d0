package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"toko-voucher/internal/domain"
	"toko-voucher/internal/infra/logging"

	"github.com/rs/zerolog"
)

// User-facing messages, kept in Indonesian like the service this replaces.
const (
	msgRegisterFailed  = "Terjadi kesalahan saat mendaftar"
	msgLoginFailed     = "Terjadi kesalahan saat login"
	msgEmailNotFound   = "Email tidak ditemukan"
	msgWrongPassword   = "Password salah"
	msgFetchFailed     = "Terjadi kesalahan saat mengambil data"
	msgUserNotFound    = "User tidak ditemukan"
	msgGenerateFailed  = "Terjadi kesalahan saat membuat voucher"
	msgVoucherNotFound = "Voucher tidak valid untuk user ini"
	msgVoucherExpired  = "Voucher sudah kadaluarsa"
	msgVoucherUsed     = "Voucher berhasil digunakan"
	msgRedeemFailed    = "Terjadi kesalahan saat menggunakan voucher"
	msgInvalidPayload  = "Permintaan tidak valid"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type useVoucherRequest struct {
	VoucherCode string `json:"voucherCode"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	user, err := s.userUC.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		// The legacy contract folds everything, duplicates included, into
		// a single 500. See DESIGN.md.
		s.logFor(r).Error().Err(err).Msg("register failed")
		writeError(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	user, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, msgEmailNotFound)
		case errors.Is(err, domain.ErrInvalidCredential):
			writeError(w, http.StatusUnauthorized, msgWrongPassword)
		default:
			s.logFor(r).Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, msgLoginFailed)
		}
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logFor(r).Error().Err(err).Msg("token issue failed")
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleListVouchers(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	vouchers, err := s.voucherUC.ListForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		s.logFor(r).Error().Err(err).Msg("list vouchers failed")
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, vouchers)
}

func (s *Server) handleGenerateVoucher(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	amount, err := s.voucherUC.Generate(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		s.logFor(r).Error().Err(err).Msg("generate voucher failed")
		writeError(w, http.StatusInternalServerError, msgGenerateFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"voucherAmount": amount})
}

func (s *Server) handleUseVoucher(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req useVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	err := s.voucherUC.Redeem(r.Context(), userID, req.VoucherCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, msgVoucherNotFound)
		case errors.Is(err, domain.ErrVoucherExpired):
			writeError(w, http.StatusBadRequest, msgVoucherExpired)
		default:
			s.logFor(r).Error().Err(err).Msg("use voucher failed")
			writeError(w, http.StatusInternalServerError, msgRedeemFailed)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgVoucherUsed})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) logFor(r *http.Request) *zerolog.Logger {
	return logging.With(r.Context(), s.log)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
