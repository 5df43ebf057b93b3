package search

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-locator/internal/auth"
	"hospital-locator/internal/logging"
	"hospital-locator/internal/places"
)

const (
	msgMissingCoordinate = "Latitude and Longitude are required"
	msgInvalidCoordinate = "Latitude must be within [-90, 90] and Longitude within [-180, 180]"
	msgLookupFailed      = "Error fetching data from HERE Maps API"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SearchHandler serves POST /api/search_hospitals.
func SearchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrUnauthenticated.Error()})
			return
		}

		var coord Coordinate
		if err := json.NewDecoder(r.Body).Decode(&coord); err != nil {
			logger.Warn("invalid search request", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		results, err := svc.Search(r.Context(), userID, coord)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, results)
		case errors.Is(err, ErrMissingCoordinate):
			logger.Warn("latitude or longitude not provided")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMissingCoordinate})
		case errors.Is(err, ErrInvalidCoordinate):
			logger.Warn("coordinate out of range", "latitude", *coord.Latitude, "longitude", *coord.Longitude)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidCoordinate})
		case errors.Is(err, places.ErrLookupUnavailable):
			logger.Error("hospital lookup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgLookupFailed})
		default:
			logger.Error("failed to save search", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save search"})
		}
	}
}

// HistoryHandler serves GET /api/get_hospitals.
func HistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrUnauthenticated.Error()})
			return
		}

		entries, err := svc.History(r.Context(), userID)
		if err != nil {
			logger.Error("failed to load search history", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load search history"})
			return
		}
		if len(entries) == 0 {
			logger.Info("no searches recorded", "account_id", userID)
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
