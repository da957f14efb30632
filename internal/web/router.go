package web

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// Options configures the web router.
type Options struct {
	JWTSecret string
	// TemplatesDir holds the page templates. Pages are rendered as JSON when
	// it is empty.
	TemplatesDir string
	// DefaultLang is used until a visitor picks a language.
	DefaultLang string
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(svc *portal.Service, opts Options) (http.Handler, error) {
	var renderer Renderer = JSONRenderer{}
	if opts.TemplatesDir != "" {
		templates, err := LoadTemplates(opts.TemplatesDir)
		if err != nil {
			return nil, err
		}
		renderer = templates
	}

	s := &Server{
		Svc:       svc,
		Renderer:  renderer,
		JWTSecret: opts.JWTSecret,
	}

	mux := http.NewServeMux()
	citizen := RequireRole(model.RoleCitizen)
	police := RequireRole(model.RolePolice)
	admin := RequireRole(model.RoleAdmin)

	// Public routes.
	mux.HandleFunc("GET /{$}", s.Home)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("POST /logout", s.Logout)
	mux.HandleFunc("POST /language", s.LanguageSubmit)
	mux.HandleFunc("GET /search/{kind}", s.SearchPage)
	mux.HandleFunc("GET /uploads/{kind}/{name}", s.UploadGet)

	// Any signed-in user.
	mux.Handle("GET /notifications", RequireLogin(http.HandlerFunc(s.NotificationsPage)))
	mux.Handle("POST /notifications", RequireLogin(http.HandlerFunc(s.NotificationsSubmit)))
	mux.Handle("GET /account/password", RequireLogin(http.HandlerFunc(s.PasswordPage)))
	mux.Handle("POST /account/password", RequireLogin(http.HandlerFunc(s.PasswordSubmit)))

	// Citizen portal.
	mux.Handle("GET /citizen", citizen(http.HandlerFunc(s.CitizenDashboard)))
	mux.Handle("GET /citizen/report/{kind}", citizen(http.HandlerFunc(s.ReportPage)))
	mux.Handle("POST /citizen/report/{kind}", citizen(http.HandlerFunc(s.ReportSubmit)))
	mux.Handle("GET /citizen/reports", citizen(http.HandlerFunc(s.MyReportsPage)))
	mux.Handle("GET /citizen/reports/{kind}/{id}", citizen(http.HandlerFunc(s.ReportDetailPage)))
	mux.Handle("GET /citizen/claims", citizen(http.HandlerFunc(s.ClaimsPage)))
	mux.Handle("POST /citizen/claims", citizen(http.HandlerFunc(s.ClaimsSubmit)))

	// Police portal.
	mux.Handle("GET /police", police(http.HandlerFunc(s.PoliceDashboard)))
	mux.Handle("GET /police/claims", police(http.HandlerFunc(s.ReviewClaimsPage)))
	mux.Handle("POST /police/claims", police(http.HandlerFunc(s.ReviewClaimsSubmit)))
	mux.Handle("GET /police/custody", police(http.HandlerFunc(s.CustodyPage)))
	mux.Handle("POST /police/custody", police(http.HandlerFunc(s.CustodySubmit)))
	mux.Handle("GET /police/reports/{kind}", police(http.HandlerFunc(s.BrowsePage)))
	mux.Handle("GET /police/match", police(http.HandlerFunc(s.MatchPage)))
	mux.Handle("POST /police/match", police(http.HandlerFunc(s.MatchSubmit)))

	// Admin portal.
	mux.Handle("GET /admin", admin(http.HandlerFunc(s.AdminDashboard)))
	mux.Handle("GET /admin/reports/{kind}", admin(http.HandlerFunc(s.ApproveReportsPage)))
	mux.Handle("POST /admin/reports/{kind}", admin(http.HandlerFunc(s.ApproveReportsSubmit)))
	mux.Handle("GET /admin/accounts", admin(http.HandlerFunc(s.AccountsPage)))
	mux.Handle("POST /admin/accounts", admin(http.HandlerFunc(s.AccountsSubmit)))
	mux.Handle("GET /admin/police", admin(http.HandlerFunc(s.PolicePage)))
	mux.Handle("POST /admin/police", admin(http.HandlerFunc(s.PoliceSubmit)))
	mux.Handle("GET /admin/categories", admin(http.HandlerFunc(s.CategoriesPage)))
	mux.Handle("POST /admin/categories", admin(http.HandlerFunc(s.CategoriesSubmit)))
	mux.Handle("GET /admin/locations", admin(http.HandlerFunc(s.LocationsPage)))
	mux.Handle("POST /admin/locations", admin(http.HandlerFunc(s.LocationsSubmit)))
	mux.Handle("GET /admin/stations", admin(http.HandlerFunc(s.StationsPage)))
	mux.Handle("POST /admin/stations", admin(http.HandlerFunc(s.StationsSubmit)))
	mux.Handle("GET /admin/settings", admin(http.HandlerFunc(s.SettingsPage)))
	mux.Handle("POST /admin/settings", admin(http.HandlerFunc(s.SettingsSubmit)))
	mux.Handle("GET /admin/activity", admin(http.HandlerFunc(s.ActivityPage)))

	lang := opts.DefaultLang
	if !model.ValidLanguage(lang) {
		lang = model.LangEnglish
	}
	return SessionMiddleware(opts.JWTSecret, svc.DB, svc.Text, lang)(mux), nil
}
