package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelinestudio/aveline-backend/pkg/db"
	"github.com/avelinestudio/aveline-backend/pkg/db/models"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
)

// Repository persists recorded orders.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Create inserts the order and its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var found []models.Order
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return found, nil
}

// GetByID returns one order by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return &order, nil
}

// FindByPlatformID returns the order recorded for a platform order id, or
// nil when none exists.
func (r *Repository) FindByPlatformID(ctx context.Context, platformOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.client.DB().WithContext(ctx).
		First(&order, "platform_order_id = ?", platformOrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading order by platform id: %w", err)
	}
	return &order, nil
}
