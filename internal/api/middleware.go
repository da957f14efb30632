package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
	"github.com/erazemk/milaap/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// bearerClaims validates the Authorization header. It returns nil claims and
// no error when the header is absent.
func bearerClaims(r *http.Request, secret string, db *sql.DB) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errInvalidToken
	}
	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return nil, err
	}
	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errInvalidToken
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token, rejects revoked tokens and adds
// the claims to the context.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(r, secret, db)
			if err != nil || claims == nil {
				jsonError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware adds claims to the context when a valid bearer token
// is present and otherwise serves the request anonymously.
func OptionalAuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(r, secret, db)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability returns middleware that checks the session role grants c.
func RequireCapability(c model.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !claims.Role.Can(c) {
				jsonError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// actor returns the session as a portal actor, or nil for anonymous requests.
func actor(r *http.Request) model.Actor {
	if claims := GetClaims(r.Context()); claims != nil {
		return claims
	}
	return nil
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ClientIP returns the request's remote host.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LoggingMiddleware logs HTTP requests with method, path, status, and
// duration, and records the client address for the activity log.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(portal.WithClientIP(r.Context(), ClientIP(r)))
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
