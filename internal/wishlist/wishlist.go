package wishlist

import (
	"context"

	"github.com/avelinestudio/aveline-backend/internal/syncstore"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
)

// Entry is one saved product. The wishlist keys on product id alone.
type Entry struct {
	ProductID  string `json:"productId" firestore:"productId" validate:"required"`
	Handle     string `json:"handle" firestore:"handle"`
	Title      string `json:"title" firestore:"title"`
	PriceCents int    `json:"priceCents" firestore:"priceCents" validate:"gte=0"`
	Image      string `json:"image,omitempty" firestore:"image"`
}

// Store wraps the synced entry list with wishlist semantics.
type Store struct {
	inner *syncstore.Store[Entry]
}

func NewStore(inner *syncstore.Store[Entry]) *Store {
	return &Store{inner: inner}
}

// Entries returns the current wishlist contents.
func (s *Store) Entries(ctx context.Context) []Entry {
	return s.inner.Items(ctx)
}

// Add saves a product. Adding a product that is already present is a
// no-op rather than a duplicate.
func (s *Store) Add(ctx context.Context, entry Entry) ([]Entry, error) {
	if entry.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.inner.Apply(ctx, func(entries []Entry) []Entry {
		for _, existing := range entries {
			if existing.ProductID == entry.ProductID {
				return entries
			}
		}
		return append(entries, entry)
	}), nil
}

// Toggle saves the product when absent and removes it when present.
func (s *Store) Toggle(ctx context.Context, entry Entry) ([]Entry, error) {
	if entry.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.inner.Apply(ctx, func(entries []Entry) []Entry {
		for i := range entries {
			if entries[i].ProductID == entry.ProductID {
				return append(entries[:i], entries[i+1:]...)
			}
		}
		return append(entries, entry)
	}), nil
}

// Remove deletes a product from the wishlist.
func (s *Store) Remove(ctx context.Context, productID string) []Entry {
	return s.inner.Apply(ctx, func(entries []Entry) []Entry {
		for i := range entries {
			if entries[i].ProductID == productID {
				return append(entries[:i], entries[i+1:]...)
			}
		}
		return entries
	})
}

// Has reports whether a product is saved.
func (s *Store) Has(ctx context.Context, productID string) bool {
	for _, entry := range s.inner.Items(ctx) {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) []Entry {
	return s.inner.Apply(ctx, func([]Entry) []Entry { return nil })
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
