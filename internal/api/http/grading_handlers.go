package httpapi

import (
	"net/http"
	"strconv"
)

func (s *Server) getSellerGrade(w http.ResponseWriter, r *http.Request) {
	sellerID, err := parseUUIDParam(r, "sellerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid seller id")
		return
	}
	grade, err := s.gradingSvc.GetSellerGrade(r.Context(), sellerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, grade)
}

func (s *Server) topSellers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	grades, err := s.gradingSvc.TopSellers(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sellers": grades})
}
