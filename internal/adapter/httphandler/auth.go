package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
	"github.com/aswaq/storefront/internal/core/service"
)

// POST v1/auth/signup JSON credentials (201 Created, 409 Conflict)
// POST v1/auth/signin JSON credentials (200 OK, 401 Unauthorized)
// POST v1/auth/signout (200 OK)

type AuthHandler struct {
	auth *service.Auth
}

func RegisterAuth(mux *http.ServeMux, auth *service.Auth) {
	h := AuthHandler{auth}
	mux.HandleFunc("POST /v1/auth/signup", h.SignUp)
	mux.HandleFunc("POST /v1/auth/signin", h.SignIn)
	mux.HandleFunc("POST /v1/auth/signout", h.SignOut)
}

func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignUp"
	log := slog.With("op", op)

	creds, ok := decodeCredentials(w, r, log)
	if !ok {
		return
	}

	u, err := h.auth.SignUp(r.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			http.Error(w, "user already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to sign up", http.StatusServiceUnavailable)
		log.Error("failed to sign up", "err", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toUserResponse(u)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignIn"
	log := slog.With("op", op)

	creds, ok := decodeCredentials(w, r, log)
	if !ok {
		return
	}

	u, err := h.auth.SignIn(r.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "failed to sign in", http.StatusServiceUnavailable)
		log.Error("failed to sign in", "err", err)
		return
	}

	writeJSON(w, log, toUserResponse(u))
}

func (h AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignOut"
	log := slog.With("op", op)

	if err := h.auth.SignOut(r.Context()); err != nil {
		http.Error(w, "failed to sign out", http.StatusServiceUnavailable)
		log.Error("failed to sign out", "err", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func decodeCredentials(
	w http.ResponseWriter, r *http.Request, log *slog.Logger,
) (port.Credentials, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return port.Credentials{}, false
	}

	if req.Email == "" && req.Phone == "" {
		http.Error(w, "email or phone is required", http.StatusBadRequest)
		return port.Credentials{}, false
	}
	if req.Password == "" {
		http.Error(w, "password is required", http.StatusBadRequest)
		return port.Credentials{}, false
	}

	return port.Credentials{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		FullName: req.FullName,
	}, true
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
	}
}
