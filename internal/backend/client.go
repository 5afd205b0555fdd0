// Package backend is the REST client for the coffee shop API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"amber-storefront/internal/config"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// API is the set of backend operations used by the storefront
type API interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, in ProductInput) (ProductResult, error)
	UpdateProduct(ctx context.Context, token, id string, in ProductInput) (ProductResult, error)
	DeleteProduct(ctx context.Context, token, id string) (string, error)

	Login(ctx context.Context, email, password string) (normalize.AuthPayload, error)
	Register(ctx context.Context, in RegisterInput) (normalize.AuthPayload, error)
	Profile(ctx context.Context, token string) (domain.User, error)
	ValidateToken(ctx context.Context, token string) (bool, error)

	CreateOrder(ctx context.Context, token string, in OrderInput) (OrderCreated, error)
	ListOrders(ctx context.Context, token string, q OrderQuery) (domain.OrderPage, error)
	GetOrder(ctx context.Context, token, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token, id string, status domain.OrderStatus) (string, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a backend client. Every call is a single attempt bounded by
// cfg.Timeout.
func New(cfg config.BackendConfig, logger *zap.Logger) API {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *client) do(ctx context.Context, req request) (response, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return response{}, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: failed to read body: %w", ErrConnection, err)
	}

	c.logger.Debug("Backend request completed",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return response{status: resp.StatusCode, body: raw}, nil
}

// check turns a response into an error following the backend conventions.
// When requireSuccess is set, a 2xx body must also carry success: true.
func check(resp response, fallback string, requireSuccess bool) error {
	if resp.ok() && !requireSuccess && len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if !json.Valid(resp.body) {
		if resp.ok() {
			return fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.status)
		}
		return &APIError{
			StatusCode: resp.status,
			Message:    fmt.Sprintf("Error del servidor: %d - Respuesta no válida", resp.status),
		}
	}

	if !resp.ok() {
		return &APIError{StatusCode: resp.status, Message: errorMessage(resp.body, fallback)}
	}

	if requireSuccess {
		var env struct {
			Success bool `json:"success"`
		}
		if err := json.Unmarshal(resp.body, &env); err != nil || !env.Success {
			return &APIError{StatusCode: resp.status, Message: errorMessage(resp.body, fallback)}
		}
	}
	return nil
}

func message(raw []byte, fallback string) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		return fallback
	}
	return env.Message
}
