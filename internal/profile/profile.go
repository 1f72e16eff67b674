package profile

import (
	"context"

	"github.com/avelinestudio/aveline-backend/internal/syncstore"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
)

// Address is one saved shipping address.
type Address struct {
	Label      string `json:"label" firestore:"label"`
	Line1      string `json:"line1" firestore:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty" firestore:"line2"`
	City       string `json:"city" firestore:"city" validate:"required"`
	Region     string `json:"region,omitempty" firestore:"region"`
	PostalCode string `json:"postalCode" firestore:"postalCode" validate:"required"`
	Country    string `json:"country" firestore:"country" validate:"required,iso3166_1_alpha2"`
	IsDefault  bool   `json:"isDefault" firestore:"isDefault"`
}

// Record is the customer profile. The synced document holds at most one.
type Record struct {
	Email     string    `json:"email" firestore:"email" validate:"required,email"`
	FirstName string    `json:"firstName" firestore:"firstName"`
	LastName  string    `json:"lastName" firestore:"lastName"`
	Phone     string    `json:"phone,omitempty" firestore:"phone"`
	Addresses []Address `json:"addresses,omitempty" firestore:"addresses" validate:"dive"`
}

// Store wraps the synced record with single-document semantics. The
// underlying sync machinery carries a list; the profile keeps at most one
// element in it.
type Store struct {
	inner *syncstore.Store[Record]
}

func NewStore(inner *syncstore.Store[Record]) *Store {
	return &Store{inner: inner}
}

// Get returns the current profile, or nil when none was saved.
func (s *Store) Get(ctx context.Context) *Record {
	records := s.inner.Items(ctx)
	if len(records) == 0 {
		return nil
	}
	record := records[0]
	return &record
}

// Update replaces the profile wholesale.
func (s *Store) Update(ctx context.Context, record Record) (*Record, error) {
	if record.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	records := s.inner.Apply(ctx, func([]Record) []Record {
		return []Record{record}
	})
	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile update was not applied")
	}
	updated := records[0]
	return &updated, nil
}

// Clear removes the saved profile.
func (s *Store) Clear(ctx context.Context) {
	s.inner.Apply(ctx, func([]Record) []Record { return nil })
}

// Bind switches persistence to the user's remote document.
func (s *Store) Bind(ctx context.Context, userID string) error {
	return s.inner.Bind(ctx, userID)
}

// Unbind switches persistence back to the device snapshot.
func (s *Store) Unbind(ctx context.Context) error {
	return s.inner.Unbind(ctx)
}

// Close releases the underlying store.
func (s *Store) Close() {
	s.inner.Close()
}
