package catalog

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type stubAdmin struct {
	lastOperation string
	lastVariables map[string]any
	payload       string
	err           error
}

func (s *stubAdmin) MutateAdmin(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	s.lastOperation = operation
	s.lastVariables = variables
	if s.err != nil {
		return s.err
	}
	if out == nil || s.payload == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.payload), out)
}

func newAdminService(stub *stubAdmin) *AdminService {
	return NewAdminService(stub, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestCreateProduct(t *testing.T) {
	stub := &stubAdmin{payload: `{"productCreate":{"product":{"id":"gid://shopify/Product/1","handle":"tee","title":"Tee","status":"ACTIVE"},"userErrors":[]}}`}
	svc := newAdminService(stub)

	product, err := svc.CreateProduct(context.Background(), ProductInput{Title: "Tee", ProductType: "Shirts", Tags: []string{"new"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.ID != "gid://shopify/Product/1" {
		t.Fatalf("unexpected product %+v", product)
	}

	input, ok := stub.lastVariables["input"].(map[string]any)
	if !ok {
		t.Fatalf("input variable missing: %v", stub.lastVariables)
	}
	if input["title"] != "Tee" || input["productType"] != "Shirts" {
		t.Fatalf("payload was not built: %v", input)
	}
	if _, present := input["id"]; present {
		t.Fatal("create payload must not carry an id")
	}
}

func TestCreateProductRequiresTitle(t *testing.T) {
	svc := newAdminService(&stubAdmin{})
	_, err := svc.CreateProduct(context.Background(), ProductInput{Title: "  "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductSurfacesUserErrors(t *testing.T) {
	stub := &stubAdmin{payload: `{"productCreate":{"product":null,"userErrors":[{"field":["title"],"message":"has already been taken"}]}}`}
	svc := newAdminService(stub)

	_, err := svc.CreateProduct(context.Background(), ProductInput{Title: "Tee"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProductCarriesID(t *testing.T) {
	stub := &stubAdmin{payload: `{"productUpdate":{"product":{"id":"gid://shopify/Product/7","handle":"tee","title":"Tee v2","status":"ACTIVE"},"userErrors":[]}}`}
	svc := newAdminService(stub)

	product, err := svc.UpdateProduct(context.Background(), "gid://shopify/Product/7", ProductInput{Title: "Tee v2"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if product.Title != "Tee v2" {
		t.Fatalf("unexpected product %+v", product)
	}

	input := stub.lastVariables["input"].(map[string]any)
	if input["id"] != "gid://shopify/Product/7" {
		t.Fatalf("update payload missing id: %v", input)
	}
}

func TestDeleteProduct(t *testing.T) {
	stub := &stubAdmin{payload: `{"productDelete":{"deletedProductId":"gid://shopify/Product/7","userErrors":[]}}`}
	svc := newAdminService(stub)

	deleted, err := svc.DeleteProduct(context.Background(), "gid://shopify/Product/7")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != "gid://shopify/Product/7" {
		t.Fatalf("unexpected deleted id %s", deleted)
	}
	if stub.lastOperation != "product_delete" {
		t.Fatalf("unexpected operation %s", stub.lastOperation)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	stub := &stubAdmin{payload: `{"productDelete":{"deletedProductId":"","userErrors":[]}}`}
	svc := newAdminService(stub)

	_, err := svc.DeleteProduct(context.Background(), "gid://shopify/Product/404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
