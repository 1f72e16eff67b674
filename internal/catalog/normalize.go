package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
	"github.com/avelinestudio/aveline-backend/pkg/money"
)

const fabricTagPrefix = "fabric:"

// Normalize maps the platform's nested product representation into a flat
// Product record. Malformed or missing nested fields degrade to empty
// collections; normalization itself never fails.
func Normalize(raw RawProduct) Product {
	price := parseAmount(raw.PriceRange.MinVariantPrice.Amount)

	product := Product{
		ID:           raw.ID,
		Handle:       raw.Handle,
		Title:        raw.Title,
		Category:     raw.ProductType,
		Price:        price,
		CurrencyCode: raw.PriceRange.MinVariantPrice.CurrencyCode,
		Description:  raw.Description,
		Fabric:       fabricFromTags(raw.Tags),
	}
	if product.CurrencyCode != "" {
		product.DisplayPrice = money.FormatDefault(price, product.CurrencyCode)
	}

	onSale := false
	if compareAt := parseAmount(raw.CompareAtPriceRange.MaxVariantPrice.Amount); compareAt.GreaterThan(price) {
		product.OriginalPrice = &compareAt
		onSale = true
	}

	if badge := deriveBadge(raw.Tags, onSale); badge != nil {
		product.Badge = badge
	}

	for _, image := range raw.Images.Nodes() {
		if image.URL == "" {
			continue
		}
		product.Images = append(product.Images, image.URL)
	}
	switch {
	case raw.FeaturedImage != nil && raw.FeaturedImage.URL != "":
		product.PrimaryImage = raw.FeaturedImage.URL
	case len(product.Images) > 0:
		product.PrimaryImage = product.Images[0]
	}

	product.Sizes = optionValues(raw.Options, "size")
	product.Colors = optionValues(raw.Options, "color", "colour")

	for _, rawVariant := range raw.Variants.Nodes() {
		product.Variants = append(product.Variants, normalizeVariant(rawVariant))
	}
	if len(product.Variants) > 0 {
		product.DefaultVariantID = product.Variants[0].ID
	}

	return product
}

// NormalizeAll flattens a product connection in source order.
func NormalizeAll(conn Connection[RawProduct]) []Product {
	nodes := conn.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	products := make([]Product, 0, len(nodes))
	for _, node := range nodes {
		products = append(products, Normalize(node))
	}
	return products
}

func normalizeVariant(raw RawVariant) Variant {
	variant := Variant{
		ID:        raw.ID,
		Title:     raw.Title,
		Available: raw.AvailableForSale,
		Price:     parseAmount(raw.Price.Amount),
	}
	if raw.CompareAtPrice != nil {
		compareAt := parseAmount(raw.CompareAtPrice.Amount)
		variant.CompareAtPrice = &compareAt
	}
	for _, opt := range raw.SelectedOptions {
		variant.SelectedOptions = append(variant.SelectedOptions, SelectedOption{Name: opt.Name, Value: opt.Value})
	}
	return variant
}

// deriveBadge picks at most one badge. Priority: NEW, then BESTSELLER,
// then SALE (from a discount signal or an explicit tag).
func deriveBadge(tags []string, onSale bool) *enums.Badge {
	hasSaleTag := false
	hasBestseller := false
	for _, tag := range tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "new":
			badge := enums.BadgeNew
			return &badge
		case "bestseller", "best-seller":
			hasBestseller = true
		case "sale":
			hasSaleTag = true
		}
	}
	if hasBestseller {
		badge := enums.BadgeBestseller
		return &badge
	}
	if onSale || hasSaleTag {
		badge := enums.BadgeSale
		return &badge
	}
	return nil
}

func fabricFromTags(tags []string) string {
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if len(trimmed) < len(fabricTagPrefix) {
			continue
		}
		if strings.EqualFold(trimmed[:len(fabricTagPrefix)], fabricTagPrefix) {
			return strings.TrimSpace(trimmed[len(fabricTagPrefix):])
		}
	}
	return ""
}

func optionValues(options []RawOption, names ...string) []string {
	for _, option := range options {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(option.Name), name) {
				return option.Values
			}
		}
	}
	return nil
}

func parseAmount(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}
