package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the snapshot of each item within a recorded order.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      string    `gorm:"column:product_id;not null"`
	VariantID      string    `gorm:"column:variant_id;not null"`
	Title          string    `gorm:"column:title;not null"`
	Size           *string   `gorm:"column:size"`
	Color          *string   `gorm:"column:color"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	TotalCents     int       `gorm:"column:total_cents;not null"`
	ImageURL       *string   `gorm:"column:image_url"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the plural convention explicit.
func (OrderLineItem) TableName() string {
	return "order_line_items"
}
