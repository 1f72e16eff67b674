package catalog

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
)

func rawFixture() RawProduct {
	return RawProduct{
		ID:          "gid://shopify/Product/123",
		Handle:      "linen-shirt",
		Title:       "Linen Shirt",
		Description: "A relaxed-fit shirt.",
		ProductType: "Shirts",
		Tags:        []string{"sale", "fabric: linen"},
		PriceRange: RawPriceRange{
			MinVariantPrice: RawMoney{Amount: "48.00", CurrencyCode: "USD"},
		},
		CompareAtPriceRange: RawCompareAtPriceRange{
			MaxVariantPrice: RawMoney{Amount: "60.00", CurrencyCode: "USD"},
		},
		FeaturedImage: &RawImage{URL: "https://img.example/hero.jpg"},
		Images: Connection[RawImage]{Edges: []Edge[RawImage]{
			{Node: RawImage{URL: "https://img.example/1.jpg"}},
			{Node: RawImage{URL: "https://img.example/2.jpg"}},
		}},
		Options: []RawOption{
			{Name: "Size", Values: []string{"S", "M", "L"}},
			{Name: "Colour", Values: []string{"White", "Navy"}},
		},
		Variants: Connection[RawVariant]{Edges: []Edge[RawVariant]{
			{Node: RawVariant{
				ID:               "gid://shopify/ProductVariant/1",
				Title:            "S / White",
				AvailableForSale: true,
				Price:            RawMoney{Amount: "48.00", CurrencyCode: "USD"},
				SelectedOptions: []RawSelectedOption{
					{Name: "Size", Value: "S"},
					{Name: "Colour", Value: "White"},
				},
			}},
			{Node: RawVariant{
				ID:    "gid://shopify/ProductVariant/2",
				Title: "M / Navy",
				Price: RawMoney{Amount: "48.00", CurrencyCode: "USD"},
			}},
		}},
	}
}

func TestNormalizeFlattensConnections(t *testing.T) {
	product := Normalize(rawFixture())

	if product.Handle != "linen-shirt" || product.Category != "Shirts" {
		t.Fatalf("unexpected identity fields: %+v", product)
	}
	if !product.Price.Equal(decimal.RequireFromString("48.00")) {
		t.Fatalf("unexpected price %s", product.Price)
	}
	if got := len(product.Images); got != 2 {
		t.Fatalf("expected 2 images, got %d", got)
	}
	if product.PrimaryImage != "https://img.example/hero.jpg" {
		t.Fatalf("featured image should win, got %s", product.PrimaryImage)
	}
	if !reflect.DeepEqual(product.Sizes, []string{"S", "M", "L"}) {
		t.Fatalf("unexpected sizes %v", product.Sizes)
	}
	if !reflect.DeepEqual(product.Colors, []string{"White", "Navy"}) {
		t.Fatalf("colour spelling should match, got %v", product.Colors)
	}
	if product.DefaultVariantID != "gid://shopify/ProductVariant/1" {
		t.Fatalf("default variant should be first in source order, got %s", product.DefaultVariantID)
	}
	if len(product.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(product.Variants))
	}
	if !product.Variants[0].Available || product.Variants[1].Available {
		t.Fatal("availability flags were not carried over")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := rawFixture()
	first, err := json.Marshal(Normalize(raw))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Normalize(raw))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("normalizing the same record twice produced different output")
	}
}

func TestBadgePriority(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		onSale bool
		want   *enums.Badge
	}{
		{"new beats sale", []string{"new", "sale"}, true, badgePtr(enums.BadgeNew)},
		{"new beats bestseller", []string{"bestseller", "new"}, false, badgePtr(enums.BadgeNew)},
		{"bestseller beats sale", []string{"sale", "bestseller"}, true, badgePtr(enums.BadgeBestseller)},
		{"hyphenated bestseller", []string{"best-seller"}, false, badgePtr(enums.BadgeBestseller)},
		{"sale tag alone", []string{"sale"}, false, badgePtr(enums.BadgeSale)},
		{"discount alone", nil, true, badgePtr(enums.BadgeSale)},
		{"no signal", []string{"summer"}, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveBadge(tt.tags, tt.onSale)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("expected %s, got %s", *tt.want, *got)
			}
		})
	}
}

func TestDiscountDetectionBoundary(t *testing.T) {
	raw := rawFixture()
	raw.Tags = nil

	// Equal compare-at price is not a discount.
	raw.CompareAtPriceRange.MaxVariantPrice.Amount = "48.00"
	product := Normalize(raw)
	if product.OriginalPrice != nil {
		t.Fatalf("equal compare-at should not discount, got %s", product.OriginalPrice)
	}
	if product.Badge != nil {
		t.Fatalf("equal compare-at should not produce a badge, got %s", *product.Badge)
	}

	// One cent above is.
	raw.CompareAtPriceRange.MaxVariantPrice.Amount = "48.01"
	product = Normalize(raw)
	if product.OriginalPrice == nil || !product.OriginalPrice.Equal(decimal.RequireFromString("48.01")) {
		t.Fatalf("expected original price 48.01, got %v", product.OriginalPrice)
	}
	if product.Badge == nil || *product.Badge != enums.BadgeSale {
		t.Fatalf("expected SALE badge, got %v", product.Badge)
	}
}

func TestNormalizeNewTagAndFabric(t *testing.T) {
	raw := RawProduct{
		ID:    "gid://shopify/Product/9",
		Tags:  []string{"new", "fabric: silk"},
		Title: "Silk Scarf",
		PriceRange: RawPriceRange{
			MinVariantPrice: RawMoney{Amount: "1000", CurrencyCode: "USD"},
		},
		CompareAtPriceRange: RawCompareAtPriceRange{
			MaxVariantPrice: RawMoney{Amount: "0"},
		},
	}

	product := Normalize(raw)
	if product.Badge == nil || *product.Badge != enums.BadgeNew {
		t.Fatalf("expected NEW badge, got %v", product.Badge)
	}
	if product.Fabric != "silk" {
		t.Fatalf("expected fabric silk, got %q", product.Fabric)
	}
	if product.OriginalPrice != nil {
		t.Fatalf("zero compare-at should not discount, got %s", product.OriginalPrice)
	}
}

func TestNormalizeDegradesGracefully(t *testing.T) {
	product := Normalize(RawProduct{ID: "gid://shopify/Product/1"})
	if !product.Price.IsZero() {
		t.Fatalf("missing price should parse as zero, got %s", product.Price)
	}
	if product.Images != nil || product.Variants != nil {
		t.Fatal("missing collections should stay empty")
	}
	if product.DefaultVariantID != "" {
		t.Fatal("empty variant list should leave the default unset")
	}
	if product.Sizes != nil || product.Colors != nil {
		t.Fatal("absent option groups should yield no lists")
	}

	// Garbage amounts degrade to zero instead of failing.
	product = Normalize(RawProduct{
		PriceRange: RawPriceRange{MinVariantPrice: RawMoney{Amount: "not-a-number"}},
	})
	if !product.Price.IsZero() {
		t.Fatalf("malformed amount should parse as zero, got %s", product.Price)
	}
}

func TestFabricFromTagsFirstMatchWins(t *testing.T) {
	got := fabricFromTags([]string{"summer", "FABRIC:  cotton ", "fabric:wool"})
	if got != "cotton" {
		t.Fatalf("expected first match cotton, got %q", got)
	}
	if got := fabricFromTags(nil); got != "" {
		t.Fatalf("expected empty fabric, got %q", got)
	}
}

func badgePtr(b enums.Badge) *enums.Badge {
	return &b
}
