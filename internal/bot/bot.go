// Package bot handles inbound Telegram updates: the payment handshake
// (shipping query, pre-checkout query, payment confirmation) and the chat
// command surface.
//
// Handlers are stateless. Order identity travels exclusively inside the
// invoice payload each gateway event echoes back; a payload that does not
// parse is refused rather than guessed at. The gateway is trusted to
// sequence events per invoice.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"tgstore/internal/cache"
	"tgstore/internal/commerce"
	"tgstore/internal/events"
	"tgstore/internal/model"
	"tgstore/internal/telegram"
)

// User-facing reply texts.
const (
	msgNoShipping         = "No shipping option available at your zone!"
	msgIncompleteShipping = "Please provide complete shipping information!"
	msgOrderUpdateFailed  = "Problem occurred during order update. Please try again or contact support."
	msgCannotProcess      = "Unable to process this order. Please contact support."
	msgOrderRegistered    = "Order successfully registered!"
	msgStart              = "Let's get started ;)"
	msgHelp               = "Test /start or /menu command!"
	msgFallback           = "Hi, I'm the store bot. It's nice to meet you! :) /help"
)

// shippingCacheTTL bounds how stale a memoized zone method list can get.
const shippingCacheTTL = 5 * time.Minute

// Gateway is the slice of the Telegram client the handlers need.
type Gateway interface {
	AnswerShippingQuery(ctx context.Context, queryID string, ok bool, options []telegram.ShippingOption, errorMessage string) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithWebApp(ctx context.Context, chatID int64, text, buttonText, webAppURL string) error
	SetChatMenuButton(ctx context.Context, text, webAppURL string) error
}

// Bot dispatches gateway updates to their handlers.
type Bot struct {
	backend   commerce.Backend
	gateway   Gateway
	cache     cache.Cache
	publisher events.Publisher
	webAppURL string
	logger    *slog.Logger
}

// New creates a bot. cache may be nil to disable shipping-method
// memoization; publisher may be nil to disable the event feed.
func New(backend commerce.Backend, gateway Gateway, c cache.Cache, publisher events.Publisher, webAppURL string, logger *slog.Logger) *Bot {
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &Bot{
		backend:   backend,
		gateway:   gateway,
		cache:     c,
		publisher: publisher,
		webAppURL: webAppURL,
		logger:    logger,
	}
}

// HandleUpdate routes one webhook update. The returned error is for the
// caller's log only; the webhook response to the gateway is always 200.
func (b *Bot) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	switch {
	case update.ShippingQuery != nil:
		return b.handleShippingQuery(ctx, update.ShippingQuery)
	case update.PreCheckoutQuery != nil:
		return b.handlePreCheckoutQuery(ctx, update.PreCheckoutQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		return b.handleSuccessfulPayment(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		return b.handleMessage(ctx, update.Message)
	default:
		b.logger.Debug("ignoring update", "update_id", update.UpdateID)
		return nil
	}
}

// handleShippingQuery answers with the delivery methods enabled for the
// zone recorded at invoice time. No enabled methods means the zone is not
// serviced and the query is refused.
func (b *Bot) handleShippingQuery(ctx context.Context, query *telegram.ShippingQuery) error {
	payload, err := telegram.ParseInvoicePayload(query.InvoicePayload)
	if err != nil {
		if answerErr := b.gateway.AnswerShippingQuery(ctx, query.ID, false, nil, msgCannotProcess); answerErr != nil {
			b.logger.Error("shipping query answer failed", "query_id", query.ID, "error", answerErr)
		}
		return fmt.Errorf("shipping query %s: %w", query.ID, err)
	}

	options, err := b.shippingOptions(ctx, payload.ShippingZone)
	if err != nil {
		if answerErr := b.gateway.AnswerShippingQuery(ctx, query.ID, false, nil, msgNoShipping); answerErr != nil {
			b.logger.Error("shipping query answer failed", "query_id", query.ID, "error", answerErr)
		}
		return fmt.Errorf("shipping query %s zone %d: %w", query.ID, payload.ShippingZone, err)
	}

	if len(options) == 0 {
		return b.gateway.AnswerShippingQuery(ctx, query.ID, false, nil, msgNoShipping)
	}
	return b.gateway.AnswerShippingQuery(ctx, query.ID, true, options, "")
}

// shippingOptions builds the answer option list for a zone, memoized in
// the cache. A cache failure falls through to the backend.
func (b *Bot) shippingOptions(ctx context.Context, zoneID int) ([]telegram.ShippingOption, error) {
	var cacheKey string
	if b.cache != nil {
		cacheKey = b.cache.Key("shipping", strconv.Itoa(zoneID))
		if raw, ok, err := b.cache.Get(ctx, cacheKey); err != nil {
			b.logger.Warn("shipping cache read failed", "zone", zoneID, "error", err)
		} else if ok {
			var options []telegram.ShippingOption
			if err := json.Unmarshal([]byte(raw), &options); err == nil {
				return options, nil
			}
			b.logger.Warn("shipping cache entry unreadable", "zone", zoneID)
		}
	}

	methods, err := b.backend.ShippingMethods(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	options := make([]telegram.ShippingOption, 0, len(methods))
	for _, method := range methods {
		if !method.Enabled {
			continue
		}
		options = append(options, telegram.ShippingOption{
			ID:    method.MethodID,
			Title: method.Title,
			// TODO: read the price from the shipping method settings
			// instead of answering free shipping.
			Prices: []telegram.LabeledPrice{{Label: "Free", Amount: 0}},
		})
	}

	if b.cache != nil {
		if raw, err := json.Marshal(options); err == nil {
			if err := b.cache.Set(ctx, cacheKey, string(raw), shippingCacheTTL); err != nil {
				b.logger.Warn("shipping cache write failed", "zone", zoneID, "error", err)
			}
		}
	}
	return options, nil
}

// handlePreCheckoutQuery is the last stop point before the gateway charges
// the user. The gateway-collected buyer data is validated and pushed onto
// the backend order; any failure refuses the charge and leaves the order
// untouched.
func (b *Bot) handlePreCheckoutQuery(ctx context.Context, query *telegram.PreCheckoutQuery) error {
	payload, err := telegram.ParseInvoicePayload(query.InvoicePayload)
	if err != nil {
		if answerErr := b.gateway.AnswerPreCheckoutQuery(ctx, query.ID, false, msgCannotProcess); answerErr != nil {
			b.logger.Error("pre-checkout answer failed", "query_id", query.ID, "error", answerErr)
		}
		return fmt.Errorf("pre-checkout query %s: %w", query.ID, err)
	}

	info := shippingInfoFromOrderInfo(query.OrderInfo)
	if !shippingInfoComplete(info) {
		return b.gateway.AnswerPreCheckoutQuery(ctx, query.ID, false, msgIncompleteShipping)
	}

	if err := b.backend.UpdateOrderInfo(ctx, payload.OrderID, info); err != nil {
		b.logger.Error("pre-checkout order update failed", "order_id", payload.OrderID, "error", err)
		return b.gateway.AnswerPreCheckoutQuery(ctx, query.ID, false, msgOrderUpdateFailed)
	}
	return b.gateway.AnswerPreCheckoutQuery(ctx, query.ID, true, "")
}

// handleSuccessfulPayment finalizes a gateway-paid order. If the backend
// refuses the paid transition the money has already moved, so the user is
// handed the correlation ids for manual reconciliation. No automatic retry.
func (b *Bot) handleSuccessfulPayment(ctx context.Context, msg *telegram.Message) error {
	payment := msg.SuccessfulPayment

	payload, err := telegram.ParseInvoicePayload(payment.InvoicePayload)
	if err != nil {
		return fmt.Errorf("successful payment in chat %d: %w", msg.Chat.ID, err)
	}

	if err := b.backend.SetOrderPaid(ctx, payload.OrderID); err != nil {
		recErr := &model.ReconciliationError{
			OrderID:          payload.OrderID,
			TelegramChargeID: payment.TelegramPaymentChargeID,
			ProviderChargeID: payment.ProviderPaymentChargeID,
			Err:              err,
		}
		if sendErr := b.gateway.SendMessage(ctx, msg.Chat.ID, recErr.UserMessage()); sendErr != nil {
			b.logger.Error("reconciliation notice send failed", "order_id", payload.OrderID, "error", sendErr)
		}
		return recErr
	}

	b.publishEvent(ctx, events.OrderEvent{
		Type:          events.TypeOrderPaid,
		OrderID:       payload.OrderID,
		PaymentMethod: string(model.PaymentTelegram),
		Currency:      payment.Currency,
	})

	return b.gateway.SendMessage(ctx, msg.Chat.ID, msgOrderRegistered)
}

// handleMessage serves the chat command surface.
func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) error {
	switch msg.Text {
	case "/start":
		return b.gateway.SendMessageWithWebApp(ctx, msg.Chat.ID, msgStart, "View Menu", b.webAppURL)
	case "/help":
		return b.gateway.SendMessage(ctx, msg.Chat.ID, msgHelp)
	case "/menu":
		return b.gateway.SetChatMenuButton(ctx, "Store", b.webAppURL)
	default:
		return b.gateway.SendMessage(ctx, msg.Chat.ID, msgFallback)
	}
}

func (b *Bot) publishEvent(ctx context.Context, event events.OrderEvent) {
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.Warn("order event publish failed",
			"type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

// shippingInfoFromOrderInfo maps the gateway's collected buyer data onto
// the backend shipping shape. Absent fields map to empty strings.
func shippingInfoFromOrderInfo(info *telegram.OrderInfo) *model.ShippingInfo {
	if info == nil {
		return &model.ShippingInfo{}
	}

	out := &model.ShippingInfo{
		Name:  info.Name,
		Email: info.Email,
		Phone: info.PhoneNumber,
	}
	if addr := info.ShippingAddress; addr != nil {
		out.Address = model.Address{
			StreetLine1: addr.StreetLine1,
			StreetLine2: addr.StreetLine2,
			City:        addr.City,
			State:       addr.State,
			CountryCode: addr.CountryCode,
			PostCode:    addr.PostCode,
		}
	}
	return out
}

// shippingInfoComplete checks the same required set the storefront checks
// before a COD submit.
func shippingInfoComplete(info *model.ShippingInfo) bool {
	return info.Name != "" &&
		info.Phone != "" &&
		info.Address.StreetLine1 != "" &&
		info.Address.City != "" &&
		info.Address.CountryCode != "" &&
		info.Address.PostCode != ""
}
