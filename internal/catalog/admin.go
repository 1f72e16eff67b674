package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// AdminClient is the privileged slice of the platform client. It stays
// server-side; the admin token is never forwarded to browsers.
type AdminClient interface {
	MutateAdmin(ctx context.Context, operation, query string, variables map[string]any, out any) error
}

// AdminService proxies catalog writes to the platform's admin surface with
// minimal reshaping.
type AdminService struct {
	platform AdminClient
	logger   *logger.Logger
}

func NewAdminService(platform AdminClient, logg *logger.Logger) *AdminService {
	return &AdminService{platform: platform, logger: logg}
}

// ProductInput is the writable subset of a platform product.
type ProductInput struct {
	Title           string   `json:"title" validate:"required"`
	DescriptionHTML string   `json:"descriptionHtml"`
	ProductType     string   `json:"productType"`
	Handle          string   `json:"handle"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT ARCHIVED"`
}

// AdminProduct is the platform's echo of a mutated product.
type AdminProduct struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

const productCreateMutation = `
mutation ProductCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product { id handle title status }
    userErrors { field message }
  }
}`

const productUpdateMutation = `
mutation ProductUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product { id handle title status }
    userErrors { field message }
  }
}`

const productDeleteMutation = `
mutation ProductDelete($input: ProductDeleteInput!) {
  productDelete(input: $input) {
    deletedProductId
    userErrors { field message }
  }
}`

// CreateProduct creates a product on the platform.
func (s *AdminService) CreateProduct(ctx context.Context, input ProductInput) (*AdminProduct, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}

	var envelope struct {
		ProductCreate struct {
			Product    *AdminProduct `json:"product"`
			UserErrors []userError   `json:"userErrors"`
		} `json:"productCreate"`
	}
	variables := map[string]any{"input": productInputPayload(input, "")}
	if err := s.platform.MutateAdmin(ctx, "product_create", productCreateMutation, variables, &envelope); err != nil {
		return nil, err
	}
	if err := userErrorsToError(envelope.ProductCreate.UserErrors); err != nil {
		return nil, err
	}
	if envelope.ProductCreate.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "platform returned no product")
	}
	return envelope.ProductCreate.Product, nil
}

// UpdateProduct applies the input to an existing platform product.
func (s *AdminService) UpdateProduct(ctx context.Context, productID string, input ProductInput) (*AdminProduct, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var envelope struct {
		ProductUpdate struct {
			Product    *AdminProduct `json:"product"`
			UserErrors []userError   `json:"userErrors"`
		} `json:"productUpdate"`
	}
	variables := map[string]any{"input": productInputPayload(input, productID)}
	if err := s.platform.MutateAdmin(ctx, "product_update", productUpdateMutation, variables, &envelope); err != nil {
		return nil, err
	}
	if err := userErrorsToError(envelope.ProductUpdate.UserErrors); err != nil {
		return nil, err
	}
	if envelope.ProductUpdate.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return envelope.ProductUpdate.Product, nil
}

// DeleteProduct removes a platform product and returns the deleted id.
func (s *AdminService) DeleteProduct(ctx context.Context, productID string) (string, error) {
	if strings.TrimSpace(productID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var envelope struct {
		ProductDelete struct {
			DeletedProductID string      `json:"deletedProductId"`
			UserErrors       []userError `json:"userErrors"`
		} `json:"productDelete"`
	}
	variables := map[string]any{"input": map[string]any{"id": productID}}
	if err := s.platform.MutateAdmin(ctx, "product_delete", productDeleteMutation, variables, &envelope); err != nil {
		return "", err
	}
	if err := userErrorsToError(envelope.ProductDelete.UserErrors); err != nil {
		return "", err
	}
	if envelope.ProductDelete.DeletedProductID == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return envelope.ProductDelete.DeletedProductID, nil
}

func productInputPayload(input ProductInput, productID string) map[string]any {
	payload := map[string]any{"title": input.Title}
	if productID != "" {
		payload["id"] = productID
	}
	if input.DescriptionHTML != "" {
		payload["descriptionHtml"] = input.DescriptionHTML
	}
	if input.ProductType != "" {
		payload["productType"] = input.ProductType
	}
	if input.Handle != "" {
		payload["handle"] = input.Handle
	}
	if len(input.Tags) > 0 {
		payload["tags"] = input.Tags
	}
	if input.Status != "" {
		payload["status"] = input.Status
	}
	return payload
}

func userErrorsToError(userErrors []userError) error {
	if len(userErrors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		if len(ue.Field) > 0 {
			messages = append(messages, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}
		messages = append(messages, ue.Message)
	}
	err := pkgerrors.New(pkgerrors.CodeValidation, "platform rejected the product payload")
	return err.WithDetails(map[string]any{"messages": messages})
}
