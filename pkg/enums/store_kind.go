package enums

import "fmt"

// StoreKind identifies one of the synced client-state collections.
type StoreKind string

const (
	StoreKindCart     StoreKind = "cart"
	StoreKindWishlist StoreKind = "wishlist"
	StoreKindProfile  StoreKind = "profile"
)

var validStoreKinds = []StoreKind{
	StoreKindCart,
	StoreKindWishlist,
	StoreKindProfile,
}

// String implements fmt.Stringer.
func (s StoreKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoreKind.
func (s StoreKind) IsValid() bool {
	for _, candidate := range validStoreKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoreKind converts raw input into a StoreKind.
func ParseStoreKind(value string) (StoreKind, error) {
	for _, candidate := range validStoreKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store kind %q", value)
}

// Collection returns the document-store collection that backs the kind.
func (s StoreKind) Collection() string {
	switch s {
	case StoreKindCart:
		return "carts"
	case StoreKindWishlist:
		return "wishlists"
	case StoreKindProfile:
		return "profiles"
	default:
		return string(s)
	}
}
