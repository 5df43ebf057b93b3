package history

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"hospital-locator/internal/models"
)

// Store keeps the per-account log of hospital searches.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RecordSearch appends a search made by accountID. results are stored as a
// JSON array exactly as given.
func (s *Store) RecordSearch(ctx context.Context, accountID int64, latitude, longitude float64, results []json.RawMessage) (*models.SearchRecord, error) {
	if results == nil {
		results = []json.RawMessage{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}

	record := models.SearchRecord{
		AccountID:    accountID,
		Latitude:     latitude,
		Longitude:    longitude,
		HospitalData: string(data),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("insert search record: %w", err)
	}
	return &record, nil
}

// ListSearches returns every record owned by accountID, newest first.
func (s *Store) ListSearches(ctx context.Context, accountID int64) ([]models.SearchRecord, error) {
	records := []models.SearchRecord{}
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list search records: %w", err)
	}
	return records, nil
}
