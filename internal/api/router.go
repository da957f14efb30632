package api

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *portal.Service, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Svc: svc, JWTSecret: jwtSecret}
	reportsHandler := &ReportsHandler{Svc: svc}
	claimsHandler := &ClaimsHandler{Svc: svc}
	matchesHandler := &MatchesHandler{Svc: svc}
	notificationsHandler := &NotificationsHandler{Svc: svc}
	catalogHandler := &CatalogHandler{Svc: svc}

	authMW := AuthMiddleware(jwtSecret, svc.DB)
	optionalAuth := OptionalAuthMiddleware(jwtSecret, svc.DB)
	canReport := RequireCapability(model.CapReportItems)
	canClaim := RequireCapability(model.CapClaimItems)
	canReview := RequireCapability(model.CapReviewClaims)
	canMatch := RequireCapability(model.CapMatchReports)
	canApprove := RequireCapability(model.CapApproveReports)

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/categories", catalogHandler.Categories)
	mux.HandleFunc("GET /api/locations", catalogHandler.Locations)
	mux.HandleFunc("GET /api/stations", catalogHandler.Stations)

	// Session.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("PUT /api/auth/language", authMW(http.HandlerFunc(authHandler.SetLanguage)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Reports: search is public, unapproved reports need a session.
	mux.Handle("GET /api/reports/{kind}", optionalAuth(http.HandlerFunc(reportsHandler.List)))
	mux.Handle("GET /api/reports/{kind}/{id}", optionalAuth(http.HandlerFunc(reportsHandler.Get)))
	mux.Handle("POST /api/reports/{kind}", authMW(canReport(http.HandlerFunc(reportsHandler.Create))))
	mux.Handle("POST /api/reports/{kind}/{id}/review", authMW(canApprove(http.HandlerFunc(reportsHandler.Review))))
	mux.Handle("GET /api/reports/{kind}/{id}/candidates", authMW(canMatch(http.HandlerFunc(reportsHandler.Candidates))))

	// Matches (police).
	mux.Handle("POST /api/matches", authMW(canMatch(http.HandlerFunc(matchesHandler.Create))))
	mux.Handle("GET /api/matches", authMW(canMatch(http.HandlerFunc(matchesHandler.List))))

	// Claims: citizens submit and confirm, police review and hand over.
	mux.Handle("POST /api/claims", authMW(canClaim(http.HandlerFunc(claimsHandler.Create))))
	mux.Handle("GET /api/claims", authMW(http.HandlerFunc(claimsHandler.List)))
	mux.Handle("GET /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Get)))
	mux.Handle("POST /api/claims/{id}/review", authMW(canReview(http.HandlerFunc(claimsHandler.Review))))
	mux.Handle("POST /api/claims/{id}/collected", authMW(canReview(http.HandlerFunc(claimsHandler.Collected))))
	mux.Handle("POST /api/claims/{id}/confirm", authMW(canClaim(http.HandlerFunc(claimsHandler.Confirm))))

	// Notifications.
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("POST /api/notifications/read", authMW(http.HandlerFunc(notificationsHandler.MarkAllRead)))
	mux.Handle("POST /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))

	return mux
}
