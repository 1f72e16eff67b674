package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avelinestudio/aveline-backend/pkg/config"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
	"github.com/avelinestudio/aveline-backend/pkg/metrics"
)

// Surfaces distinguish the public catalog API from the privileged admin API.
const (
	SurfaceStorefront = "storefront"
	SurfaceAdmin      = "admin"
)

const (
	storefrontTokenHeader = "X-Shopify-Storefront-Access-Token"
	adminTokenHeader      = "X-Shopify-Access-Token"

	defaultHTTPTimeout = 15 * time.Second
)

var (
	errStoreDomainRequired     = errors.New("shopify store domain is required")
	errStorefrontTokenRequired = errors.New("shopify storefront token is required")
	errLoggerRequired          = errors.New("shopify logger is required")
)

// GraphQLError is a single entry from a GraphQL errors payload.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Client exposes the commerce platform's GraphQL surfaces with centralized
// auth, logging, and error mapping. The admin token never leaves this process.
type Client struct {
	httpClient      *http.Client
	storefrontURL   string
	adminURL        string
	storefrontToken string
	adminToken      string
	logger          *logger.Logger
	metrics         *metrics.PlatformMetrics
}

// NewClient initializes the platform wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.ShopifyConfig, logg *logger.Logger, pm *metrics.PlatformMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errStoreDomainRequired
	}
	storefrontToken := strings.TrimSpace(cfg.StorefrontToken)
	if storefrontToken == "" {
		return nil, errStorefrontTokenRequired
	}

	c := &Client{
		httpClient:      &http.Client{Timeout: defaultHTTPTimeout},
		storefrontURL:   cfg.StorefrontEndpoint(),
		adminURL:        cfg.AdminEndpoint(),
		storefrontToken: storefrontToken,
		adminToken:      strings.TrimSpace(cfg.AdminToken),
		logger:          logg,
		metrics:         pm,
	}

	logg.Info(ctx, "shopify client initialized")
	return c, nil
}

// QueryStorefront runs an operation against the public storefront API and
// decodes the data payload into out.
func (c *Client) QueryStorefront(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	return c.execute(ctx, SurfaceStorefront, operation, query, variables, out)
}

// MutateAdmin runs an operation against the privileged admin API.
func (c *Client) MutateAdmin(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if c.adminToken == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "shopify admin token is not configured")
	}
	return c.execute(ctx, SurfaceAdmin, operation, query, variables, out)
}

func (c *Client) execute(ctx context.Context, surface, operation, query string, variables map[string]any, out any) error {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCall(surface, operation, time.Since(start))
	}()

	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding graphql request")
	}

	endpoint, header, token := c.storefrontURL, storefrontTokenHeader, c.storefrontToken
	if surface == SurfaceAdmin {
		endpoint, header, token = c.adminURL, adminTokenHeader, c.adminToken
	}

	c.log(ctx, "request", surface, operation, map[string]any{"variables": variableKeys(variables)})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", surface, operation, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("shopify %s %s failed", surface, operation))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(ctx, "error", surface, operation, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading graphql response")
	}

	if resp.StatusCode != http.StatusOK {
		c.log(ctx, "error", surface, operation, map[string]any{"status": resp.StatusCode})
		return pkgerrors.New(codeForStatus(resp.StatusCode), fmt.Sprintf("shopify %s %s returned status %d", surface, operation, resp.StatusCode))
	}

	var envelope gqlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log(ctx, "error", surface, operation, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding graphql response")
	}

	if len(envelope.Errors) > 0 {
		c.log(ctx, "error", surface, operation, map[string]any{"graphql_errors": len(envelope.Errors)})
		return graphQLError(surface, operation, envelope.Errors)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding graphql data")
		}
	}

	c.log(ctx, "response", surface, operation, map[string]any{"status": resp.StatusCode})
	return nil
}

func (c *Client) log(ctx context.Context, phase, surface, operation string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"surface":   surface,
		"operation": operation,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("shopify %s", operation), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("shopify %s", phase))
	}
}

func graphQLError(surface, operation string, gqlErrs []GraphQLError) error {
	code := pkgerrors.CodeDependency
	messages := make([]string, 0, len(gqlErrs))
	for _, gqlErr := range gqlErrs {
		messages = append(messages, gqlErr.Message)
		switch strings.ToUpper(gqlErr.Extensions.Code) {
		case "THROTTLED", "MAX_COST_EXCEEDED":
			code = pkgerrors.CodeRateLimit
		case "ACCESS_DENIED", "UNAUTHORIZED", "UNAUTHENTICATED":
			code = pkgerrors.CodeUnauthorized
		}
	}
	err := pkgerrors.New(code, fmt.Sprintf("shopify %s %s failed", surface, operation))
	return err.WithDetails(map[string]any{"messages": messages})
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

// variableKeys keeps request logs free of customer data.
func variableKeys(variables map[string]any) []string {
	if len(variables) == 0 {
		return nil
	}
	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	return keys
}
