package handlers

import (
	"net/http"

	"github.com/dom/postgram/internal/api/middleware"
	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/service"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
	log         zerolog.Logger
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest only checks presence so a policy change never locks out
// existing accounts.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	User UserResponse `json:"user"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Email: u.Email}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.log, "auth.register", err)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.log, "auth.register", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.log, "auth.login", err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.log, "auth.login", err)
		return
	}

	middleware.SetSessionCookies(w, h.cfg, result.Tokens)
	writeJSON(w, http.StatusOK, LoginResponse{User: newUserResponse(result.User)})
}

// Logout needs no session: it only tells the browser to drop both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookies(w, h.cfg)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, h.log, "auth.me", domain.ErrUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
