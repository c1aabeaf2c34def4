package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appAudit "github.com/connectone/tradecore/internal/application/audit"
	"github.com/connectone/tradecore/internal/domain/listing"
)

type forceTransitionRequest struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
}

func (s *Server) statusReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.listingSvc.StatusReport(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) queryAudit(w http.ResponseWriter, r *http.Request) {
	params := appAudit.QueryParams{}
	q := r.URL.Query()
	if v := q.Get("entity_type"); v != "" {
		params.EntityType = &v
	}
	if v := q.Get("entity_id"); v != "" {
		params.EntityID = &v
	}
	if v := q.Get("action"); v != "" {
		params.Action = &v
	}
	if v := q.Get("actor"); v != "" {
		params.Actor = &v
	}
	if v := q.Get("risk_level"); v != "" {
		params.RiskLevel = &v
	}
	if v := q.Get("trace_id"); v != "" {
		params.TraceID = &v
	}
	if v := q.Get("start_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid start_time")
			return
		}
		params.StartTime = &t
	}
	if v := q.Get("end_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid end_time")
			return
		}
		params.EndTime = &t
	}
	if v := q.Get("cursor"); v != "" {
		params.Cursor = &v
	}
	limit, _ := parseLimitOffset(r, 50, 200)
	params.Limit = limit

	result, err := s.auditSvc.Query(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) getAudit(w http.ResponseWriter, r *http.Request) {
	auditID, err := parseUUIDParam(r, "auditId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid audit id")
		return
	}
	log, err := s.auditSvc.GetByID(r.Context(), auditID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, log)
}

func (s *Server) verifyAudit(w http.ResponseWriter, r *http.Request) {
	auditID, err := parseUUIDParam(r, "auditId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid audit id")
		return
	}
	result, err := s.auditSvc.VerifyIntegrity(r.Context(), auditID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) auditEntityHistory(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID := chi.URLParam(r, "entityId")
	logs, err := s.auditSvc.GetEntityHistory(r.Context(), entityType, entityID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}

// forceTransition lets an administrator move a trade to an arbitrary known
// status, outside the transition table. A reason is mandatory.
func (s *Server) forceTransition(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	var req forceTransitionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	t, err := s.escrowSvc.ForceTransition(r.Context(), tradeID, auth.UserID, listing.Status(req.To), req.Reason)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// confirmDelivery records a courier delivery confirmation for a trade in
// the shipping status.
func (s *Server) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	t, err := s.escrowSvc.ConfirmDelivery(r.Context(), tradeID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}
