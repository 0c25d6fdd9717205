// Package woocommerce implements the commerce backend interface against the
// WooCommerce REST API v3.
//
// Authentication is two static credential query parameters (consumer_key,
// consumer_secret) appended to every call. Calls are synchronous
// request/response; nothing is retried — failures surface to the caller.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tgstore/internal/commerce"
	"tgstore/internal/model"
	"tgstore/internal/transport"
)

// apiPath is the base path for REST API v3 endpoints.
const apiPath = "/wp-json/wc/v3"

// userAgent identifies this client to upstream servers.
// Required: WooCommerce CDN/WAF rate-limits requests without User-Agent.
const userAgent = "tgstore/1.0"

// Config holds WooCommerce connection settings.
type Config struct {
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
}

// Client implements commerce.Backend using the WooCommerce REST API.
type Client struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
}

// New creates a WooCommerce client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("API credentials are required")
	}

	// Chrome TLS fingerprint transport avoids JA3-based rate limiting.
	// See internal/transport for rationale.
	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(transport.NewBrowserTransport(30 * time.Second)),
		},
		storeURL:       strings.TrimSuffix(cfg.StoreURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
	}, nil
}

// CreateOrder creates an unpaid order from line items.
// Every call creates a new backend order; callers own double-submit guarding.
func (c *Client) CreateOrder(ctx context.Context, items []commerce.LineItemInput, note string, method model.PaymentMethod) (*model.Order, error) {
	lineItems := make([]wooLineItemInput, len(items))
	for i, item := range items {
		lineItems[i] = wooLineItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	body := wooOrderRequest{
		SetPaid:            false,
		LineItems:          lineItems,
		CustomerNote:       note,
		PaymentMethod:      method,
		PaymentMethodTitle: method.Title(),
	}

	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, body, &order); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, model.NewBackendError("order create", fmt.Errorf("response missing order id"))
	}
	return &order, nil
}

// UpdateOrderInfo pushes shipping and billing data onto an existing order.
// The backend keeps first/last name as one field pair; the single collected
// name goes into both.
func (c *Client) UpdateOrderInfo(ctx context.Context, orderID int, info *model.ShippingInfo) error {
	addr := wooAddress{
		FirstName: info.Name,
		LastName:  info.Name,
		Address1:  info.Address.StreetLine1,
		Address2:  info.Address.StreetLine2,
		City:      info.Address.City,
		State:     info.Address.State,
		Postcode:  info.Address.PostCode,
		Country:   info.Address.CountryCode,
	}

	billing := addr
	billing.Email = info.Email
	billing.Phone = info.Phone

	shipping := addr
	update := wooOrderUpdate{Shipping: &shipping, Billing: &billing}

	return c.do(ctx, http.MethodPut, "/orders/"+strconv.Itoa(orderID), nil, update, nil)
}

// SetOrderPaid marks an order paid.
func (c *Client) SetOrderPaid(ctx context.Context, orderID int) error {
	paid := true
	update := wooOrderUpdate{SetPaid: &paid}
	return c.do(ctx, http.MethodPut, "/orders/"+strconv.Itoa(orderID), nil, update, nil)
}

// ShippingMethods lists the delivery methods configured for a zone.
func (c *Client) ShippingMethods(ctx context.Context, zoneID int) ([]model.ShippingMethod, error) {
	var raw []wooZoneMethod
	path := fmt.Sprintf("/shipping/zones/%d/methods", zoneID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}

	methods := make([]model.ShippingMethod, len(raw))
	for i, m := range raw {
		methods[i] = model.ShippingMethod{
			MethodID: m.MethodID,
			Title:    m.MethodTitle,
			Enabled:  m.Enabled,
		}
	}
	return methods, nil
}

// Products lists one catalog page. Only simple products are requested;
// variable and grouped product types are not supported by the storefront.
func (c *Client) Products(ctx context.Context, q commerce.ProductQuery) ([]model.Product, error) {
	query := url.Values{}
	query.Set("type", "simple")
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.CategoryID > 0 {
		query.Set("category", strconv.Itoa(q.CategoryID))
	}

	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	query := url.Values{}
	query.Set("per_page", "30")

	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", query, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// do executes one backend call, appending the credential query parameters
// and decoding the JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("consumer_key", c.consumerKey)
	query.Set("consumer_secret", c.consumerSecret)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	fullURL := c.storeURL + apiPath + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewBackendError(method+" "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(method+" "+path, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// parseErrorResponse converts a backend error body to the error taxonomy.
func (c *Client) parseErrorResponse(op string, statusCode int, body []byte) error {
	var wooErr wooErrorResponse
	json.Unmarshal(body, &wooErr) // best effort

	detail := fmt.Errorf("status %d", statusCode)
	if wooErr.Code != "" || wooErr.Message != "" {
		detail = fmt.Errorf("status %d: %s - %s", statusCode, wooErr.Code, wooErr.Message)
	}
	return model.NewBackendError(op, detail)
}

// Verify Client implements commerce.Backend at compile time.
var _ commerce.Backend = (*Client)(nil)
