package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appEscrow "github.com/connectone/tradecore/internal/application/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
)

type startTradeRequest struct {
	ChatID uuid.UUID `json:"chat_id"`
}

type tradeTransitionRequest struct {
	Action            string `json:"action"`
	TrackingNumber    string `json:"tracking_number,omitempty"`
	CancelReason      string `json:"cancel_reason,omitempty"`
	PaymentConfirmed  bool   `json:"payment_confirmed,omitempty"`
	DeliveryConfirmed bool   `json:"delivery_confirmed,omitempty"`
}

func (s *Server) startTrade(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req startTradeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.ChatID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "chat_id is required")
		return
	}
	t, err := s.escrowSvc.StartTrade(r.Context(), req.ChatID, auth.UserID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)

	// Admins may list all trades, optionally narrowed to one status.
	if auth.IsAdmin() && r.URL.Query().Get("all") == "true" {
		var status *listing.Status
		if v := r.URL.Query().Get("status"); v != "" {
			st, err := listing.Normalize(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
				return
			}
			status = &st
		}
		trades, err := s.escrowSvc.ListTrades(r.Context(), status, limit, offset)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"trades": trades})
		return
	}

	trades, err := s.escrowSvc.ListTradesByParty(r.Context(), auth.UserID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"trades": trades})
}

func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	t, err := s.escrowSvc.GetTrade(r.Context(), tradeID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) transitionTrade(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	var req tradeTransitionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Action == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "action is required")
		return
	}
	t, err := s.escrowSvc.Transition(r.Context(), tradeID, auth.UserID, req.Action, appEscrow.TransitionInput{
		TrackingNumber:    req.TrackingNumber,
		CancelReason:      req.CancelReason,
		PaymentConfirmed:  req.PaymentConfirmed,
		DeliveryConfirmed: req.DeliveryConfirmed,
		IsAdmin:           auth.IsAdmin(),
	})
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) tradeHistory(w http.ResponseWriter, r *http.Request) {
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	records, err := s.escrowSvc.History(r.Context(), tradeID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transitions": records})
}

func (s *Server) tradeActions(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	tradeID, err := parseUUIDParam(r, "tradeId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid trade id")
		return
	}
	actions, err := s.escrowSvc.AllowedActions(r.Context(), tradeID, auth.UserID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}
