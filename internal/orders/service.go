package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelinestudio/aveline-backend/pkg/db/models"
	"github.com/avelinestudio/aveline-backend/pkg/enums"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPlatformID(ctx context.Context, platformOrderID string) (*models.Order, error)
}

// Service records checkouts completed on the commerce platform and serves
// order history. Checkout itself happens entirely on the platform; this is
// a local snapshot for the account pages.
type Service struct {
	store  Store
	logger *logger.Logger
}

func NewService(store Store, logg *logger.Logger) *Service {
	return &Service{store: store, logger: logg}
}

// LineItemParams is one purchased line as reported by the platform.
type LineItemParams struct {
	ProductID      string `json:"productId" validate:"required"`
	VariantID      string `json:"variantId" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	UnitPriceCents int    `json:"unitPriceCents" validate:"gte=0"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	ImageURL       string `json:"imageUrl"`
}

// CreateParams records one completed checkout.
type CreateParams struct {
	PlatformOrderID string           `json:"platformOrderId" validate:"required"`
	CurrencyCode    string           `json:"currencyCode"`
	ShippingCents   int              `json:"shippingCents" validate:"gte=0"`
	TaxCents        int              `json:"taxCents" validate:"gte=0"`
	Email           string           `json:"email" validate:"omitempty,email"`
	PlacedAt        time.Time        `json:"placedAt"`
	Items           []LineItemParams `json:"items" validate:"required,min=1,dive"`
}

// Create snapshots the order for the user. Recording the same platform
// order twice returns the existing record instead of a duplicate.
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*models.Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(params.PlatformOrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform order id is required")
	}
	if len(params.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	existing, err := s.store.FindByPlatformID(ctx, params.PlatformOrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is recorded for a different account")
		}
		return existing, nil
	}

	currency := strings.ToUpper(strings.TrimSpace(params.CurrencyCode))
	if currency == "" {
		currency = "USD"
	}
	placedAt := params.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now().UTC()
	}

	order := &models.Order{
		UserID:          userID,
		PlatformOrderID: params.PlatformOrderID,
		Status:          enums.OrderStatusPlaced,
		CurrencyCode:    currency,
		ShippingCents:   params.ShippingCents,
		TaxCents:        params.TaxCents,
		PlacedAt:        placedAt,
	}
	if email := strings.TrimSpace(params.Email); email != "" {
		order.Email = &email
	}

	subtotal := 0
	for _, item := range params.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		lineTotal := item.UnitPriceCents * item.Quantity
		subtotal += lineTotal
		line := models.OrderLineItem{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     lineTotal,
		}
		if item.Size != "" {
			size := item.Size
			line.Size = &size
		}
		if item.Color != "" {
			color := item.Color
			line.Color = &color
		}
		if item.ImageURL != "" {
			imageURL := item.ImageURL
			line.ImageURL = &imageURL
		}
		order.Items = append(order.Items, line)
	}
	order.SubtotalCents = subtotal
	order.TotalCents = subtotal + params.ShippingCents + params.TaxCents

	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	logCtx := s.logger.WithUserID(ctx, userID)
	logCtx = s.logger.WithField(logCtx, "platform_order_id", params.PlatformOrderID)
	s.logger.Info(logCtx, "order recorded")
	return order, nil
}

// ListByUser returns the user's order history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.store.ListByUser(ctx, userID)
}

// GetByID returns one of the user's orders. Orders belonging to other
// accounts surface as not found.
func (s *Service) GetByID(ctx context.Context, userID string, rawID string) (*models.Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid")
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
