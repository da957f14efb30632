package api

import (
	"net/http"

	"github.com/erazemk/milaap/internal/portal"
)

// NotificationsHandler handles the caller's notification inbox.
type NotificationsHandler struct {
	Svc *portal.Service
}

// List handles GET /api/notifications. With unread=1 only unread entries are
// listed.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Notifications(r.Context(), actor(r), r.URL.Query().Get("unread") == "1")
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.Svc.MarkNotificationRead(r.Context(), actor(r), id); err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllRead handles POST /api/notifications/read.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkAllNotificationsRead(r.Context(), actor(r)); err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
