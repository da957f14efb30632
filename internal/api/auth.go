package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Svc       *portal.Service
	JWTSecret string
}

type loginRequest struct {
	Role     model.Role `json:"role"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Account *model.Account `json:"account"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Language        string `json:"language"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login handles POST /api/auth/login. The role defaults to citizen; police may
// log in with their badge number in place of the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleCitizen
	}

	account, err := h.Svc.Authenticate(r.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, account)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}

	slog.Info("account logged in", "account", account.ID, "role", account.Role)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Account: account})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Svc.RegisterCitizen(r.Context(), portal.RegisterInput(req))
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusCreated, account)
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	expiresAt := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.Svc.Logout(r.Context(), claims, claims.ID, expiresAt); err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.Svc.Account(r.Context(), GetClaims(r.Context()))
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, account)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.NewPassword
	}

	claims := GetClaims(r.Context())
	if err := h.Svc.ChangePassword(r.Context(), claims, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	slog.Info("account changed own password", "account", claims.AccountID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// SetLanguage handles PUT /api/auth/language.
func (h *AuthHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Svc.SetLanguage(r.Context(), GetClaims(r.Context()), req.Language); err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"language": req.Language})
}
