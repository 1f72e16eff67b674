package cart

import (
	"context"

	"github.com/avelinestudio/aveline-backend/internal/syncstore"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
)

// Item is one cart line. At most one item exists per distinct
// (product, size, color) selection.
type Item struct {
	ProductID      string `json:"productId" firestore:"productId" validate:"required"`
	VariantID      string `json:"variantId" firestore:"variantId" validate:"required"`
	Title          string `json:"title" firestore:"title"`
	Size           string `json:"size" firestore:"size"`
	Color          string `json:"color" firestore:"color"`
	Quantity       int    `json:"quantity" firestore:"quantity" validate:"required,gt=0"`
	UnitPriceCents int    `json:"unitPriceCents" firestore:"unitPriceCents" validate:"gte=0"`
	Image          string `json:"image,omitempty" firestore:"image"`
}

func (i Item) sameSelection(other Item) bool {
	return i.ProductID == other.ProductID && i.Size == other.Size && i.Color == other.Color
}

// Store wraps the synced item list with cart semantics.
type Store struct {
	inner *syncstore.Store[Item]
}

func NewStore(inner *syncstore.Store[Item]) *Store {
	return &Store{inner: inner}
}

// Items returns the current cart contents.
func (s *Store) Items(ctx context.Context) []Item {
	return s.inner.Items(ctx)
}

// Add inserts the item, or increments quantity when the same
// (product, size, color) selection is already present.
func (s *Store) Add(ctx context.Context, item Item) ([]Item, error) {
	if item.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.inner.Apply(ctx, func(items []Item) []Item {
		return merge(items, item)
	}), nil
}

// UpdateQuantity sets the quantity for a selection. Zero or negative
// removes the line entirely.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) []Item {
	target := Item{ProductID: productID, Size: size, Color: color}
	return s.inner.Apply(ctx, func(items []Item) []Item {
		return setQuantity(items, target, quantity)
	})
}

// Remove deletes a selection from the cart.
func (s *Store) Remove(ctx context.Context, productID, size, color string) []Item {
	return s.UpdateQuantity(ctx, productID, size, color, 0)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) []Item {
	return s.inner.Apply(ctx, func([]Item) []Item { return nil })
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

func merge(items []Item, item Item) []Item {
	for i := range items {
		if items[i].sameSelection(item) {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

func setQuantity(items []Item, target Item, quantity int) []Item {
	for i := range items {
		if !items[i].sameSelection(target) {
			continue
		}
		if quantity <= 0 {
			return append(items[:i], items[i+1:]...)
		}
		items[i].Quantity = quantity
		return items
	}
	return items
}
