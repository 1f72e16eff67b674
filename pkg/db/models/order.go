package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
)

// Order records a checkout completed on the commerce platform, snapshotted
// locally for order-history lookups.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          string            `gorm:"column:user_id;not null;index"`
	PlatformOrderID string            `gorm:"column:platform_order_id;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`
	CurrencyCode    string            `gorm:"column:currency_code;not null;default:'USD'"`
	SubtotalCents   int               `gorm:"column:subtotal_cents;not null"`
	ShippingCents   int               `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents        int               `gorm:"column:tax_cents;not null;default:0"`
	TotalCents      int               `gorm:"column:total_cents;not null"`
	Email           *string           `gorm:"column:email"`
	Items           []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt        time.Time         `gorm:"column:placed_at;not null"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the plural convention explicit.
func (Order) TableName() string {
	return "orders"
}
