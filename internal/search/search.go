package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hospital-locator/internal/logging"
	"hospital-locator/internal/models"
)

var (
	ErrMissingCoordinate = errors.New("latitude and longitude are required")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrStore             = errors.New("search history unavailable")
)

// Lookup finds hospitals around a coordinate.
type Lookup interface {
	FindHospitalsNear(ctx context.Context, latitude, longitude float64) ([]json.RawMessage, error)
}

// History persists and lists searches per account.
type History interface {
	RecordSearch(ctx context.Context, accountID int64, latitude, longitude float64, results []json.RawMessage) (*models.SearchRecord, error)
	ListSearches(ctx context.Context, accountID int64) ([]models.SearchRecord, error)
}

// Coordinate is the search request body. Nil fields were absent or null.
type Coordinate struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (c Coordinate) validate() error {
	if c.Latitude == nil || c.Longitude == nil {
		return ErrMissingCoordinate
	}
	if *c.Latitude < -90 || *c.Latitude > 90 || *c.Longitude < -180 || *c.Longitude > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Entry is one history item as returned to the caller.
type Entry struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Hospitals []json.RawMessage `json:"hospitals"`
}

type Service struct {
	lookup  Lookup
	history History
}

func NewService(lookup Lookup, history History) *Service {
	return &Service{lookup: lookup, history: history}
}

// Search looks up hospitals around coord and records the result for
// accountID. Nothing is recorded unless the lookup succeeds.
func (s *Service) Search(ctx context.Context, accountID int64, coord Coordinate) ([]json.RawMessage, error) {
	if err := coord.validate(); err != nil {
		return nil, err
	}
	lat, lng := *coord.Latitude, *coord.Longitude

	logger := logging.FromContext(ctx)
	logger.Info("searching hospitals", "account_id", accountID, "latitude", lat, "longitude", lng)

	results, err := s.lookup.FindHospitalsNear(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	logger.Info("hospitals found", "account_id", accountID, "count", len(results))

	if _, err := s.history.RecordSearch(ctx, accountID, lat, lng, results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return results, nil
}

// History returns every search recorded for accountID, newest first.
func (s *Service) History(ctx context.Context, accountID int64) ([]Entry, error) {
	records, err := s.history.ListSearches(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		hospitals, err := r.Hospitals()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		entries = append(entries, Entry{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Hospitals: hospitals,
		})
	}
	return entries, nil
}
