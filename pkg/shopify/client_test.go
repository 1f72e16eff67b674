package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testClient(serverURL string) *Client {
	return &Client{
		httpClient:      http.DefaultClient,
		storefrontURL:   serverURL,
		adminURL:        serverURL,
		storefrontToken: "storefront-token",
		adminToken:      "admin-token",
		logger:          testLogger(),
	}
}

func TestQueryStorefrontSendsTokenAndDecodesData(t *testing.T) {
	var gotHeader, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Shopify-Storefront-Access-Token")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"Aveline"}}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	var out struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	err := client.QueryStorefront(context.Background(), "shop_info", `query { shop { name } }`, map[string]any{"first": 10}, &out)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if out.Shop.Name != "Aveline" {
		t.Fatalf("data was not decoded, got %+v", out)
	}
	if gotHeader != "storefront-token" {
		t.Fatalf("unexpected storefront token header %q", gotHeader)
	}

	var req gqlRequest
	if err := json.Unmarshal([]byte(gotBody), &req); err != nil {
		t.Fatalf("request body is not valid json: %v", err)
	}
	if req.Query == "" {
		t.Fatal("query was not sent")
	}
	if req.Variables["first"] != float64(10) {
		t.Fatalf("variables were not sent, got %v", req.Variables)
	}
}

func TestMutateAdminUsesAdminToken(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Shopify-Access-Token")
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.MutateAdmin(context.Background(), "product_create", `mutation { }`, nil, nil); err != nil {
		t.Fatalf("mutation failed: %v", err)
	}
	if gotHeader != "admin-token" {
		t.Fatalf("unexpected admin token header %q", gotHeader)
	}
}

func TestMutateAdminRequiresToken(t *testing.T) {
	client := testClient("http://unused")
	client.adminToken = ""
	err := client.MutateAdmin(context.Background(), "product_create", `mutation { }`, nil, nil)
	if err == nil {
		t.Fatal("expected error without admin token")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestExecuteMapsThrottledErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.QueryStorefront(context.Background(), "products_list", `query { }`, nil, nil)
	if err == nil {
		t.Fatal("expected error from graphql errors payload")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit code, got %v", err)
	}
}

func TestExecuteMapsHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.QueryStorefront(context.Background(), "products_list", `query { }`, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := codeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestGraphQLErrorAccessDenied(t *testing.T) {
	gqlErrs := []GraphQLError{{Message: "denied"}}
	gqlErrs[0].Extensions.Code = "ACCESS_DENIED"
	err := graphQLError(SurfaceAdmin, "product_update", gqlErrs)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}
