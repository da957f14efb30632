package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// Server holds dependencies for web handlers.
type Server struct {
	Svc       *portal.Service
	Renderer  Renderer
	JWTSecret string
}

// render writes a page with the session, site name and any pending flash
// messages filled in.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, titleKey string, data any) {
	s.renderStatus(w, r, http.StatusOK, name, titleKey, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, titleKey string, data any) {
	sess := GetSession(r.Context())
	page := &Page{Name: name, Title: sess.T(titleKey), Session: sess, Path: r.URL.RequestURI(), Data: data}

	settings, err := s.Svc.Settings(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		page.SiteName = sess.T("common.site_name")
	} else {
		page.SiteName = settings.SiteName
	}

	if keys := takeFlash(w, r, flashSuccess); len(keys) > 0 {
		page.Success = flashText(sess, keys)
	}
	if keys := takeFlash(w, r, flashError); len(keys) > 0 {
		page.Error = flashText(sess, keys)
	}

	s.Renderer.Render(w, status, name, page)
}

// loadFailed renders the error page for a failed read.
func (s *Server) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	key := portal.MessageKey(err)
	status := http.StatusInternalServerError
	switch key {
	case "errors.not_found":
		status = http.StatusNotFound
	case "errors.forbidden", "errors.account_inactive":
		status = http.StatusForbidden
	case "errors.generic":
		slog.Error("failed to load page", "path", r.URL.Path, "error", err)
	default:
		status = http.StatusBadRequest
	}
	sess := GetSession(r.Context())
	s.renderStatus(w, r, status, "error", "pages.error", map[string]string{"message": sess.T(key)})
}

// done redirects to target with a success message.
func (s *Server) done(w http.ResponseWriter, r *http.Request, key, target string) {
	setFlash(w, flashSuccess, key)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail redirects to target with the messages for err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, target string) {
	keys := portal.MessageKeys(err)
	if keys[0] == "errors.generic" {
		slog.Error("action failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	setFlash(w, flashError, keys...)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// formID parses an id form or query value. Missing or malformed values are 0.
func formID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// pathKind returns the {kind} path value, writing a 404 when it is unknown.
func pathKind(w http.ResponseWriter, r *http.Request) (model.ItemKind, bool) {
	kind, ok := model.ParseItemKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
	}
	return kind, ok
}

// localPath returns target when it is a path on this site and fallback
// otherwise.
func localPath(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return fallback
}

// homePath is the landing page of a role.
func homePath(role model.Role) string {
	return "/" + string(role)
}
