// Package telegram is the payment gateway client: a thin Bot API wrapper
// covering the invoice flow plus the chat surface of the store bot.
//
// The client is an explicitly constructed service object passed to its
// consumers; nothing here registers process-wide state, so handlers can be
// tested against doubles.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tgstore/internal/model"
)

// defaultBaseURL is the production Bot API endpoint.
const defaultBaseURL = "https://api.telegram.org"

// Config holds gateway credentials.
type Config struct {
	// Token is the bot token identifying this bot to the API.
	Token string

	// ProviderToken is the payment provider token stamped onto invoices.
	ProviderToken string

	// BaseURL overrides the API endpoint, for tests. Empty means production.
	BaseURL string
}

// Client calls the Telegram Bot API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	providerToken string
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:       baseURL,
		token:         cfg.Token,
		providerToken: cfg.ProviderToken,
	}, nil
}

// CreateInvoiceLink requests a payment link for the given invoice.
// The provider token is filled in here; callers never see it.
func (c *Client) CreateInvoiceLink(ctx context.Context, inv *Invoice) (string, error) {
	req := *inv
	req.ProviderToken = c.providerToken

	var link string
	if err := c.call(ctx, "createInvoiceLink", &req, &link); err != nil {
		return "", err
	}
	if link == "" {
		return "", model.NewGatewayError("createInvoiceLink", fmt.Errorf("empty invoice link"))
	}
	return link, nil
}

// AnswerShippingQuery replies to a shipping query. When ok is false,
// errorMessage is shown to the user and options are ignored.
func (c *Client) AnswerShippingQuery(ctx context.Context, queryID string, ok bool, options []ShippingOption, errorMessage string) error {
	body := struct {
		ShippingQueryID string           `json:"shipping_query_id"`
		OK              bool             `json:"ok"`
		ShippingOptions []ShippingOption `json:"shipping_options,omitempty"`
		ErrorMessage    string           `json:"error_message,omitempty"`
	}{queryID, ok, options, errorMessage}

	return c.call(ctx, "answerShippingQuery", &body, nil)
}

// AnswerPreCheckoutQuery accepts or rejects the final pre-payment check.
// The gateway requires an answer within 10 seconds of the query.
func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	body := struct {
		PreCheckoutQueryID string `json:"pre_checkout_query_id"`
		OK                 bool   `json:"ok"`
		ErrorMessage       string `json:"error_message,omitempty"`
	}{queryID, ok, errorMessage}

	return c.call(ctx, "answerPreCheckoutQuery", &body, nil)
}

// SendMessage posts a plain text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}{chatID, text}

	return c.call(ctx, "sendMessage", &body, nil)
}

// SendMessageWithWebApp posts a message with a single inline button opening
// the mini-app.
func (c *Client) SendMessageWithWebApp(ctx context.Context, chatID int64, text, buttonText, webAppURL string) error {
	type webAppInfo struct {
		URL string `json:"url"`
	}
	type inlineButton struct {
		Text   string     `json:"text"`
		WebApp webAppInfo `json:"web_app"`
	}
	body := struct {
		ChatID      int64  `json:"chat_id"`
		Text        string `json:"text"`
		ReplyMarkup struct {
			InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}{ChatID: chatID, Text: text}
	body.ReplyMarkup.InlineKeyboard = [][]inlineButton{
		{{Text: buttonText, WebApp: webAppInfo{URL: webAppURL}}},
	}

	return c.call(ctx, "sendMessage", &body, nil)
}

// SetChatMenuButton points the chat menu button at the mini-app.
func (c *Client) SetChatMenuButton(ctx context.Context, text, webAppURL string) error {
	body := map[string]any{
		"menu_button": map[string]any{
			"type":    "web_app",
			"text":    text,
			"web_app": map[string]string{"url": webAppURL},
		},
	}

	return c.call(ctx, "setChatMenuButton", &body, nil)
}

// SetWebhook registers the webhook endpoint receiving gateway updates.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	body := struct {
		URL string `json:"url"`
	}{webhookURL}

	return c.call(ctx, "setWebhook", &body, nil)
}

// call executes one Bot API method. result, when non-nil, receives the
// unwrapped result field.
func (c *Client) call(ctx context.Context, method string, body, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewGatewayError(method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if !envelope.OK {
		return model.NewGatewayError(method,
			fmt.Errorf("code %d: %s", envelope.ErrorCode, envelope.Description))
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("parsing %s result: %w", method, err)
		}
	}
	return nil
}
