package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Account is a registered user. PasswordHash holds a bcrypt hash and is never
// serialized.
type Account struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// SearchRecord is one hospital search made by an account together with the
// provider items returned for it.
type SearchRecord struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	AccountID    int64     `gorm:"not null;index" json:"account_id"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	HospitalData string    `gorm:"column:hospital_data;type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (SearchRecord) TableName() string {
	return "search_records"
}

// Hospitals decodes the stored provider items.
func (r SearchRecord) Hospitals() ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewBufferString(r.HospitalData))
	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode hospital data of record %d: %w", r.ID, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode hospital data of record %d: trailing data", r.ID)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}
