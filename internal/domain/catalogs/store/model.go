// Package store provides the store directory. Stores are the endpoints
// of transfers and the universe against which calendar filters resolve
// store names.
package store

import (
	"context"
	"strings"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

// StoreStatus defines whether a store participates in transfers.
type StoreStatus string

const (
	StatusActive   StoreStatus = "active"
	StatusInactive StoreStatus = "inactive"
)

// Store represents a retail store known to the system.
type Store struct {
	ID id.ID `db:"id" json:"id"`

	// Name as it appears in transfer feeds. Matching against transfer
	// endpoints is done by this name.
	Name string `db:"name" json:"name"`

	// InditexCode is the chain-side identifier.
	InditexCode string `db:"inditex_code" json:"inditexCode"`

	// FuturaCode is the back-office identifier.
	FuturaCode string `db:"futura_code" json:"futuraCode"`

	Status StoreStatus `db:"status" json:"status"`

	Address *string `db:"address" json:"address,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates an active store with required fields.
func New(name, inditexCode, futuraCode string) *Store {
	now := time.Now().UTC()
	return &Store{
		ID:          id.New(),
		Name:        strings.TrimSpace(name),
		InditexCode: strings.ToUpper(strings.TrimSpace(inditexCode)),
		FuturaCode:  strings.ToUpper(strings.TrimSpace(futuraCode)),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Normalize upper-cases the store codes. Call before persisting.
func (s *Store) Normalize() {
	s.InditexCode = strings.ToUpper(strings.TrimSpace(s.InditexCode))
	s.FuturaCode = strings.ToUpper(strings.TrimSpace(s.FuturaCode))
	s.Name = strings.TrimSpace(s.Name)
}

// IsActive reports whether the store participates in transfers.
func (s *Store) IsActive() bool {
	return s.Status == StatusActive
}

// Validate checks required fields and status.
func (s *Store) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("store name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(s.InditexCode) == "" {
		return apperror.NewValidation("inditex code is required").
			WithDetail("field", "inditexCode")
	}
	switch s.Status {
	case StatusActive, StatusInactive:
	default:
		return apperror.NewValidation("invalid store status").
			WithDetail("field", "status").
			WithDetail("value", string(s.Status))
	}
	return nil
}
