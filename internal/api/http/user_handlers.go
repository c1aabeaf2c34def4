package httpapi

import (
	"net/http"

	appUser "github.com/connectone/tradecore/internal/application/user"
	"github.com/connectone/tradecore/internal/domain/audit"
	domainUser "github.com/connectone/tradecore/internal/domain/user"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}

type updateUserRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.userSvc.CreateUser(r.Context(), appUser.CreateInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Role:     domainUser.Role(req.Role),
		Status:   domainUser.Status(req.Status),
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	s.auditSvc.Log(r.Context(), &audit.AuditEntry{
		EntityType: audit.EntityTypeUser,
		EntityID:   u.UserID.String(),
		Action:     audit.ActionCreate,
		Actor:      auth.ActorString(),
		ActorRole:  string(auth.Role),
		Reason:     "user created",
	})
	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	var filter domainUser.Filter
	if v := r.URL.Query().Get("role"); v != "" {
		role := domainUser.Role(v)
		filter.Role = &role
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domainUser.Status(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("username"); v != "" {
		filter.Username = &v
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	users, err := s.userSvc.ListUsers(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user id")
		return
	}
	if userID != auth.UserID && !auth.IsAdmin() {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "cannot view other users")
		return
	}
	u, err := s.userSvc.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user id")
		return
	}
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	input := appUser.UpdateInput{Nickname: req.Nickname}
	if req.Role != nil {
		role := domainUser.Role(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := domainUser.Status(*req.Status)
		input.Status = &status
	}
	u, err := s.userSvc.UpdateUser(r.Context(), userID, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	s.auditSvc.Log(r.Context(), &audit.AuditEntry{
		EntityType: audit.EntityTypeUser,
		EntityID:   u.UserID.String(),
		Action:     audit.ActionUpdate,
		Actor:      auth.ActorString(),
		ActorRole:  string(auth.Role),
		Reason:     "user updated",
	})
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) setUserPassword(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user id")
		return
	}
	var req setPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.userSvc.SetPassword(r.Context(), userID, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	s.auditSvc.Log(r.Context(), &audit.AuditEntry{
		EntityType: audit.EntityTypeUser,
		EntityID:   userID.String(),
		Action:     audit.ActionUpdate,
		Actor:      auth.ActorString(),
		ActorRole:  string(auth.Role),
		Reason:     "password changed",
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}
