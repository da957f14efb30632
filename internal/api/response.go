package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

var errInvalidToken = errors.New("invalid token")

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// errorStatus maps a portal error to an HTTP status.
func errorStatus(err error) int {
	var ve *portal.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, portal.ErrCategoryMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, portal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, portal.ErrForbidden), errors.Is(err, portal.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, portal.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, portal.ErrAlreadyClaimed), errors.Is(err, portal.ErrInvalidState),
		errors.Is(err, portal.ErrMatchExists), errors.Is(err, portal.ErrInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// requestLanguage picks the first supported language of Accept-Language.
func requestLanguage(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if model.ValidLanguage(lang) {
			return lang
		}
	}
	return model.LangEnglish
}

// portalError writes a translated error for err. Unexpected errors are logged
// and reported generically.
func portalError(w http.ResponseWriter, r *http.Request, text i18n.Translator, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	lang := requestLanguage(r)
	body := map[string]any{"error": text.T(lang, portal.MessageKey(err), nil)}

	if keys := portal.MessageKeys(err); len(keys) > 1 {
		details := make([]string, len(keys))
		for i, k := range keys {
			details[i] = text.T(lang, k, nil)
		}
		body["details"] = details
	}
	jsonResponse(w, status, body)
}

// pathID parses a numeric path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// queryID parses an optional numeric query parameter. Invalid values read as zero.
func queryID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

// emptyIfNil keeps JSON lists from encoding as null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
