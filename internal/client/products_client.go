// Package client talks to the /bp/products REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	resty "gopkg.in/resty.v1"

	"productdesk/internal/models"
)

const productsPath = "/bp/products"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Config holds the API location and transport settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a products API client.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a Client for cfg. A nil logger discards logs.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{logger: logger}

	hc := resty.New().
		SetHostURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		hc.SetTimeout(cfg.Timeout)
	}
	hc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(RequestIDHeader, uuid.NewString())
		return nil
	})
	hc.OnAfterResponse(c.logResponse)
	c.http = hc
	return c
}

// logResponse logs every failed response, telling bad request, not found and
// server errors apart.
func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	if !resp.IsError() {
		c.logger.Debug("products api response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"elapsed", resp.Time())
		return nil
	}
	attrs := []any{
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"body", string(resp.Body()),
	}
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		c.logger.Error("products api bad request", attrs...)
	case http.StatusNotFound:
		c.logger.Error("products api not found", attrs...)
	case http.StatusInternalServerError:
		c.logger.Error("products api server error", attrs...)
	default:
		c.logger.Error("products api error", attrs...)
	}
	return nil
}

// ListProducts fetches the whole catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out models.ProductsResponse
	if _, err := c.do(ctx, http.MethodGet, productsPath, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.Product{}, nil
	}
	return out.Data, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	if _, err := c.do(ctx, http.MethodGet, productPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates p. The caller supplies the identifier.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (*models.ProductResponse, error) {
	var out models.ProductResponse
	if _, err := c.do(ctx, http.MethodPost, productsPath, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces the product identified by id. The payload never
// carries the identifier.
func (c *Client) UpdateProduct(ctx context.Context, id string, u models.ProductUpdate) (*models.ProductResponse, error) {
	var out models.ProductResponse
	if _, err := c.do(ctx, http.MethodPut, productPath(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes the product identified by id.
func (c *Client) DeleteProduct(ctx context.Context, id string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if _, err := c.do(ctx, http.MethodDelete, productPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyProduct reports whether a product with id already exists.
func (c *Client) VerifyProduct(ctx context.Context, id string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, productsPath+"/verification/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return false, err
	}
	exists, err := strconv.ParseBool(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return false, fmt.Errorf("%w: unexpected verification body %q", ErrServer, resp.Body())
	}
	return exists, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("products api unreachable", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return resp, nil
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode()}
	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Name = body.Name
		apiErr.Message = body.Message
		apiErr.Details = body.Errors
	}
	return apiErr
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}
