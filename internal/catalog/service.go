package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

const (
	defaultPageSize = 24
	maxPageSize     = 50
)

// StorefrontClient is the read-only slice of the platform client the
// catalog needs.
type StorefrontClient interface {
	QueryStorefront(ctx context.Context, operation, query string, variables map[string]any, out any) error
}

// Service fetches and normalizes catalog data. Products are read fresh on
// every call and never cached locally.
type Service struct {
	platform StorefrontClient
	logger   *logger.Logger
}

func NewService(platform StorefrontClient, logg *logger.Logger) *Service {
	return &Service{platform: platform, logger: logg}
}

// ListParams filters and paginates the product listing.
type ListParams struct {
	Limit    int
	Cursor   string
	Category string
	Query    string
}

// ListResult is one page of normalized products.
type ListResult struct {
	Products []Product `json:"products"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// List returns one page of products matching the params.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	variables := map[string]any{"first": limit}
	if params.Cursor != "" {
		variables["after"] = params.Cursor
	}
	if search := buildSearchQuery(params); search != "" {
		variables["query"] = search
	}

	var envelope struct {
		Products Connection[RawProduct] `json:"products"`
	}
	if err := s.platform.QueryStorefront(ctx, "products_list", productsQuery, variables, &envelope); err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Products: NormalizeAll(envelope.Products),
		PageInfo: envelope.Products.PageInfo,
	}, nil
}

// GetByHandle returns the product published under the given URL slug.
func (s *Service) GetByHandle(ctx context.Context, handle string) (*Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}

	var envelope struct {
		ProductByHandle *RawProduct `json:"productByHandle"`
	}
	if err := s.platform.QueryStorefront(ctx, "product_by_handle", productByHandleQuery, map[string]any{"handle": handle}, &envelope); err != nil {
		return nil, err
	}
	if envelope.ProductByHandle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", handle))
	}

	product := Normalize(*envelope.ProductByHandle)
	return &product, nil
}

// GetByID returns the product with the given platform id.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var envelope struct {
		Product *RawProduct `json:"product"`
	}
	if err := s.platform.QueryStorefront(ctx, "product_by_id", productByIDQuery, map[string]any{"id": id}, &envelope); err != nil {
		return nil, err
	}
	if envelope.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", id))
	}

	product := Normalize(*envelope.Product)
	return &product, nil
}

func buildSearchQuery(params ListParams) string {
	var parts []string
	if category := strings.TrimSpace(params.Category); category != "" {
		parts = append(parts, fmt.Sprintf("product_type:%q", category))
	}
	if text := strings.TrimSpace(params.Query); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
