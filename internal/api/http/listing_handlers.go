package httpapi

import (
	"net/http"

	appListing "github.com/connectone/tradecore/internal/application/listing"
	domainEscrow "github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
)

type publishListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Price       int64  `json:"price"`
}

func (s *Server) publishListing(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req publishListingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	l, err := s.listingSvc.Publish(r.Context(), appListing.PublishInput{
		SellerID:    auth.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Condition:   listing.Condition(req.Condition),
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, l)
}

func (s *Server) listListings(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	limit, offset := parseLimitOffset(r, 50, 200)
	listings, err := s.listingSvc.ListByFilter(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"listings": listings})
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseUUIDParam(r, "listingId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid listing id")
		return
	}
	l, err := s.listingSvc.Get(r.Context(), listingID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if l == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) deleteListing(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	listingID, err := parseUUIDParam(r, "listingId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid listing id")
		return
	}
	if err := s.listingSvc.Delete(r.Context(), listingID, auth.UserID); err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}

// listingActions answers which escrow actions a role can take from the
// listing's current status.
func (s *Server) listingActions(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseUUIDParam(r, "listingId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid listing id")
		return
	}
	role := domainEscrow.Role(r.URL.Query().Get("role"))
	switch role {
	case domainEscrow.RoleBuyer, domainEscrow.RoleSeller, domainEscrow.RoleSystem, domainEscrow.RoleAdmin:
	case "":
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "role is required")
		return
	default:
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown role: "+string(role))
		return
	}
	l, err := s.listingSvc.Get(r.Context(), listingID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if l == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  l.Status,
		"role":    role,
		"actions": s.machine.AllowedActions(l.Status, role),
	})
}

func (s *Server) listSellerListings(w http.ResponseWriter, r *http.Request) {
	sellerID, err := parseUUIDParam(r, "sellerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid seller id")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	listings, err := s.listingSvc.ListBySeller(r.Context(), sellerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"listings": listings})
}
