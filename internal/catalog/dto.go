package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
)

// Connection mirrors the platform's paginated edge/node wrapper.
type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// Edge wraps a single node within a connection.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Nodes flattens the wrapper into a plain ordered list.
func (c Connection[T]) Nodes() []T {
	if len(c.Edges) == 0 {
		return nil
	}
	nodes := make([]T, 0, len(c.Edges))
	for _, edge := range c.Edges {
		nodes = append(nodes, edge.Node)
	}
	return nodes
}

// PageInfo carries the platform's cursor pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// RawMoney is the platform's string-encoded money value.
type RawMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type RawPriceRange struct {
	MinVariantPrice RawMoney `json:"minVariantPrice"`
}

type RawCompareAtPriceRange struct {
	MaxVariantPrice RawMoney `json:"maxVariantPrice"`
}

type RawImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type RawSelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RawVariant struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	AvailableForSale bool                `json:"availableForSale"`
	Price            RawMoney            `json:"price"`
	CompareAtPrice   *RawMoney           `json:"compareAtPrice"`
	SelectedOptions  []RawSelectedOption `json:"selectedOptions"`
}

type RawOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// RawProduct is the platform's nested product representation.
type RawProduct struct {
	ID                  string                 `json:"id"`
	Handle              string                 `json:"handle"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	ProductType         string                 `json:"productType"`
	Tags                []string               `json:"tags"`
	PriceRange          RawPriceRange          `json:"priceRange"`
	CompareAtPriceRange RawCompareAtPriceRange `json:"compareAtPriceRange"`
	FeaturedImage       *RawImage              `json:"featuredImage"`
	Images              Connection[RawImage]   `json:"images"`
	Variants            Connection[RawVariant] `json:"variants"`
	Options             []RawOption            `json:"options"`
}

// SelectedOption is one name/value pair on a purchasable variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a flat purchasable variant.
type Variant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Available       bool             `json:"available"`
	Price           decimal.Decimal  `json:"price"`
	CompareAtPrice  *decimal.Decimal `json:"compareAtPrice,omitempty"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
}

// Product is the flat internal record every catalog surface works with.
// Once constructed it is never mutated in place.
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	Title            string           `json:"title"`
	Category         string           `json:"category,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	DisplayPrice     string           `json:"displayPrice,omitempty"`
	CurrencyCode     string           `json:"currencyCode,omitempty"`
	OriginalPrice    *decimal.Decimal `json:"originalPrice,omitempty"`
	PrimaryImage     string           `json:"primaryImage,omitempty"`
	Images           []string         `json:"images,omitempty"`
	Badge            *enums.Badge     `json:"badge,omitempty"`
	Description      string           `json:"description,omitempty"`
	Fabric           string           `json:"fabric,omitempty"`
	Colors           []string         `json:"colors,omitempty"`
	Sizes            []string         `json:"sizes,omitempty"`
	DefaultVariantID string           `json:"defaultVariantId,omitempty"`
	Variants         []Variant        `json:"variants,omitempty"`
}
