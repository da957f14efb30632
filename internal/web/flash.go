package web

import (
	"net/http"
	"regexp"
	"strings"
)

// Flash cookies carry translation keys across a redirect. Several keys are
// joined with flashSep.
const (
	flashSuccess = "success"
	flashError   = "error"
)

const flashSep = "|"

var flashKeyPattern = regexp.MustCompile(`^[a-z_]+(\.[a-z_]+)+(\|[a-z_]+(\.[a-z_]+)+)*$`)

func setFlash(w http.ResponseWriter, kind string, keys ...string) {
	http.SetCookie(w, &http.Cookie{
		Name:     kind,
		Value:    strings.Join(keys, flashSep),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns and clears the flash keys of kind. Values that are not
// translation keys are ignored.
func takeFlash(w http.ResponseWriter, r *http.Request, kind string) []string {
	c, err := r.Cookie(kind)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: kind, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	if !flashKeyPattern.MatchString(c.Value) {
		return nil
	}
	return strings.Split(c.Value, flashSep)
}

// flashText translates keys and joins them into one message.
func flashText(sess *Session, keys []string) string {
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = sess.T(k)
	}
	return strings.Join(msgs, " ")
}
