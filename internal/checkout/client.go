package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tgstore/internal/clientinfo"
	"tgstore/internal/model"
)

// Client submits order requests to the orchestrator over HTTP.
// It implements API for use outside the mini-app (the CLI storefront).
type Client struct {
	httpClient *http.Client
	baseURL    string
	client     clientinfo.Info
}

// NewClient creates an orchestrator API client. info identifies the
// calling runtime in the Store-Client header.
func NewClient(baseURL string, info clientinfo.Info) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     info,
	}
}

// PlaceOrder posts an order request and decodes the response.
func (c *Client) PlaceOrder(ctx context.Context, orderReq *model.OrderRequest) (*model.OrderResponse, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.client.Version != "" || c.client.Platform != "" {
		req.Header.Set(clientinfo.Header,
			fmt.Sprintf("platform=%q;version=%q", c.client.Platform, c.client.Version))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr model.APIError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Code != "" {
			apiErr.StatusCode = resp.StatusCode
			return nil, &apiErr
		}
		return nil, fmt.Errorf("order request failed with status %d", resp.StatusCode)
	}

	var orderResp model.OrderResponse
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, fmt.Errorf("parsing order response: %w", err)
	}
	return &orderResp, nil
}

// Verify Client implements API at compile time.
var _ API = (*Client)(nil)
