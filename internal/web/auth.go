package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// loginRole reads the role a login form is for, defaulting to citizen.
func loginRole(r *http.Request) model.Role {
	if role, ok := model.ParseRole(r.FormValue("role")); ok {
		return role
	}
	return model.RoleCitizen
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := GetSession(r.Context()); sess.LoggedIn() {
		http.Redirect(w, r, homePath(sess.Role()), http.StatusSeeOther)
		return
	}
	s.render(w, r, "login", "pages.login", map[string]any{
		"role":  loginRole(r),
		"roles": []model.Role{model.RoleCitizen, model.RolePolice, model.RoleAdmin},
	})
}

// LoginSubmit handles POST /login. Police may sign in with their badge
// number instead of an email address.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	role := loginRole(r)
	back := "/login?role=" + url.QueryEscape(string(role))

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	if login == "" || password == "" {
		setFlash(w, flashError, "errors.required_fields")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	account, err := s.Svc.Authenticate(r.Context(), role, login, password)
	if err != nil {
		s.fail(w, r, err, back)
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, account)
	if err != nil {
		s.fail(w, r, err, back)
		return
	}

	setAuthCookie(w, token)
	if model.ValidLanguage(account.Language) {
		setLangCookie(w, account.Language)
	}
	http.Redirect(w, r, homePath(account.Role), http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register", "pages.register", map[string]any{"languages": model.SupportedLanguages})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("language")
	if lang == "" {
		lang = GetSession(r.Context()).Lang
	}
	_, err := s.Svc.RegisterCitizen(r.Context(), portal.RegisterInput{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("phone"),
		Address:         r.FormValue("address"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Language:        lang,
	})
	if err != nil {
		s.fail(w, r, err, "/register")
		return
	}
	s.done(w, r, "success.registered", "/login?role=citizen")
}

// Logout handles POST /logout by revoking the session token.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	if sess.LoggedIn() {
		expiresAt := time.Now().Add(auth.TokenExpiry)
		if sess.Claims.ExpiresAt != nil {
			expiresAt = sess.Claims.ExpiresAt.Time
		}
		if err := s.Svc.Logout(r.Context(), sess.Claims, sess.Claims.ID, expiresAt); err != nil {
			slog.Error("failed to revoke session", "error", err)
		}
	}
	clearAuthCookie(w)
	s.done(w, r, "success.logged_out", "/login")
}

// LanguageSubmit handles POST /language. Signed-in users keep the choice on
// their account.
func (s *Server) LanguageSubmit(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	back := localPath(r.FormValue("return"), "/")
	lang := r.FormValue("lang")

	if sess.LoggedIn() {
		if err := s.Svc.SetLanguage(r.Context(), sess.Claims, lang); err != nil {
			s.fail(w, r, err, back)
			return
		}
	} else if !model.ValidLanguage(lang) {
		setFlash(w, flashError, "errors.invalid_language")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	setLangCookie(w, lang)
	s.done(w, r, "success.language_changed", back)
}

// PasswordPage handles GET /account/password.
func (s *Server) PasswordPage(w http.ResponseWriter, r *http.Request) {
	account, err := s.Svc.Account(r.Context(), GetSession(r.Context()).Actor())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "password", "pages.password", account)
}

// PasswordSubmit handles POST /account/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	err := s.Svc.ChangePassword(r.Context(), GetSession(r.Context()).Actor(),
		r.FormValue("current_password"), r.FormValue("new_password"), r.FormValue("confirm_password"))
	if err != nil {
		s.fail(w, r, err, "/account/password")
		return
	}
	s.done(w, r, "success.password_changed", "/account/password")
}
