package web

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

type webContextKey string

const sessionKey webContextKey = "session"

const (
	tokenCookie = "token"
	langCookie  = "lang"
)

// Session is the request-scoped view of who is browsing and in which
// language.
type Session struct {
	// Claims is nil for anonymous visitors.
	Claims *auth.Claims
	Token  string
	Lang   string
	Text   i18n.Translator
}

// Actor returns the session as a portal actor, or nil when anonymous.
func (s *Session) Actor() model.Actor {
	if s == nil || s.Claims == nil {
		return nil
	}
	return s.Claims
}

// LoggedIn reports whether the session carries a valid token.
func (s *Session) LoggedIn() bool { return s != nil && s.Claims != nil }

// Role returns the session role, or "" when anonymous.
func (s *Session) Role() model.Role {
	if !s.LoggedIn() {
		return ""
	}
	return s.Claims.Role
}

// T translates key into the session language. Extra arguments are
// name/value pairs substituted into the message.
func (s *Session) T(key string, kv ...string) string {
	var params map[string]string
	if len(kv) > 1 {
		params = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[kv[i]] = kv[i+1]
		}
	}
	return s.Text.T(s.Lang, key, params)
}

// SessionMiddleware attaches a Session to every request. An invalid or
// revoked token cookie is cleared and the request continues anonymously.
func SessionMiddleware(secret string, db *sql.DB, text i18n.Translator, defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{Lang: defaultLang, Text: text}
			if c, err := r.Cookie(langCookie); err == nil && model.ValidLanguage(c.Value) {
				sess.Lang = c.Value
			}

			if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
				claims, err := auth.ValidateToken(secret, cookie.Value)
				if err == nil && claims.ID != "" {
					revoked, rerr := store.IsTokenRevoked(r.Context(), db, claims.ID)
					if rerr != nil {
						slog.Error("failed to check token revocation", "error", rerr)
					}
					if rerr != nil || revoked {
						claims = nil
					}
				}
				if err == nil && claims != nil {
					sess.Claims = claims
					sess.Token = cookie.Value
				} else {
					clearAuthCookie(w)
				}
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole sends anonymous visitors to the login page of role and refuses
// sessions of other roles.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.LoggedIn() {
				setFlash(w, flashError, "errors.login_required")
				http.Redirect(w, r, "/login?role="+string(role), http.StatusSeeOther)
				return
			}
			if sess.Role() != role {
				http.Error(w, sess.T("errors.forbidden"), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).LoggedIn() {
			setFlash(w, flashError, "errors.login_required")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setAuthCookie stores the session token.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// setLangCookie remembers the display language.
func setLangCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookie,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession retrieves the request session. Requests that bypassed
// SessionMiddleware get an anonymous English session.
func GetSession(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey).(*Session); ok {
		return sess
	}
	return &Session{Lang: model.LangEnglish, Text: i18n.MustLoad()}
}
