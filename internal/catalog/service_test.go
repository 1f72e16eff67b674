package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type stubStorefront struct {
	lastOperation string
	lastVariables map[string]any
	payload       string
	err           error
}

func (s *stubStorefront) QueryStorefront(ctx context.Context, operation, query string, variables map[string]any, out any) error {
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

func newTestService(stub *stubStorefront) *Service {
	return NewService(stub, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestListAppliesDefaultsAndFilters(t *testing.T) {
	stub := &stubStorefront{payload: `{"products":{"edges":[{"node":{"id":"gid://shopify/Product/1","handle":"tee","title":"Tee","priceRange":{"minVariantPrice":{"amount":"20.00","currencyCode":"USD"}}}}],"pageInfo":{"hasNextPage":true,"endCursor":"abc"}}}`}
	svc := newTestService(stub)

	result, err := svc.List(context.Background(), ListParams{Category: "Shirts", Query: "linen"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if stub.lastOperation != "products_list" {
		t.Fatalf("unexpected operation %s", stub.lastOperation)
	}
	if stub.lastVariables["first"] != defaultPageSize {
		t.Fatalf("expected default page size, got %v", stub.lastVariables["first"])
	}
	if stub.lastVariables["query"] != `product_type:"Shirts" linen` {
		t.Fatalf("unexpected search query %v", stub.lastVariables["query"])
	}
	if len(result.Products) != 1 || result.Products[0].Handle != "tee" {
		t.Fatalf("unexpected products %+v", result.Products)
	}
	if !result.PageInfo.HasNextPage || result.PageInfo.EndCursor != "abc" {
		t.Fatalf("page info was not carried over: %+v", result.PageInfo)
	}
}

func TestListCapsPageSizeAndForwardsCursor(t *testing.T) {
	stub := &stubStorefront{payload: `{"products":{"edges":[]}}`}
	svc := newTestService(stub)

	if _, err := svc.List(context.Background(), ListParams{Limit: 500, Cursor: "cur"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if stub.lastVariables["first"] != maxPageSize {
		t.Fatalf("expected capped page size, got %v", stub.lastVariables["first"])
	}
	if stub.lastVariables["after"] != "cur" {
		t.Fatalf("cursor was not forwarded, got %v", stub.lastVariables["after"])
	}
	if _, ok := stub.lastVariables["query"]; ok {
		t.Fatal("empty filters should not send a query variable")
	}
}

func TestListPropagatesPlatformErrors(t *testing.T) {
	stub := &stubStorefront{err: errors.New("upstream down")}
	svc := newTestService(stub)
	if _, err := svc.List(context.Background(), ListParams{}); err == nil {
		t.Fatal("expected platform error to propagate")
	}
}

func TestGetByHandle(t *testing.T) {
	stub := &stubStorefront{payload: `{"productByHandle":{"id":"gid://shopify/Product/2","handle":"coat","title":"Coat","priceRange":{"minVariantPrice":{"amount":"120.00","currencyCode":"USD"}}}}`}
	svc := newTestService(stub)

	product, err := svc.GetByHandle(context.Background(), " coat ")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product.Handle != "coat" {
		t.Fatalf("unexpected product %+v", product)
	}
	if stub.lastVariables["handle"] != "coat" {
		t.Fatalf("handle was not trimmed, got %v", stub.lastVariables["handle"])
	}
}

func TestGetByHandleNotFound(t *testing.T) {
	stub := &stubStorefront{payload: `{"productByHandle":null}`}
	svc := newTestService(stub)

	_, err := svc.GetByHandle(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByHandleRequiresHandle(t *testing.T) {
	svc := newTestService(&stubStorefront{})
	_, err := svc.GetByHandle(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	stub := &stubStorefront{payload: `{"product":null}`}
	svc := newTestService(stub)

	_, err := svc.GetByID(context.Background(), "gid://shopify/Product/404")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
