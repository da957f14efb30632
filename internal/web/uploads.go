package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/milaap/internal/uploads"
)

// UploadGet handles GET /uploads/{kind}/{name}.
func (s *Server) UploadGet(w http.ResponseWriter, r *http.Request) {
	ref, err := uploads.Ref(r.PathValue("kind"), r.PathValue("name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rc, err := s.Svc.Uploads.Open(r.Context(), ref)
	if errors.Is(err, uploads.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open upload", "ref", ref, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
