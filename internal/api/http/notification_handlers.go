package httpapi

import (
	"net/http"
)

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	notifications, err := s.notificationSvc.List(r.Context(), auth.UserID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	count, err := s.notificationSvc.CountUnread(r.Context(), auth.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"unread": count})
}

func (s *Server) sendNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, err := parseUUIDParam(r, "notificationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid notification id")
		return
	}
	n, err := s.notificationSvc.SendNow(r.Context(), notificationID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_STATE", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (s *Server) sseEndpoint(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	s.streamSSE(w, r, auth.UserID)
}
