// Package order implements the order orchestrator: it turns a client order
// request into a commerce-backend order and, for gateway payment, an
// invoice link.
//
// The orchestrator holds no order state of its own. Every call is
// idempotent-unsafe end to end: retrying a failed PlaceOrder creates a
// second backend order, so clients must guard against double submission.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tgstore/internal/commerce"
	"tgstore/internal/events"
	"tgstore/internal/model"
	"tgstore/internal/telegram"
)

// Gateway is the slice of the payment gateway the orchestrator needs.
type Gateway interface {
	CreateInvoiceLink(ctx context.Context, inv *telegram.Invoice) (string, error)
}

// Service orchestrates order placement.
type Service struct {
	backend   commerce.Backend
	gateway   Gateway
	publisher events.Publisher
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewService creates an orchestrator over the given backend and gateway.
func NewService(backend commerce.Backend, gateway Gateway, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NewNoop()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// Error messages name fields by their wire name, not the Go name.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		backend:   backend,
		gateway:   gateway,
		publisher: publisher,
		validate:  validate,
		logger:    logger,
	}
}

// PlaceOrder creates a backend order from the request and prepares payment.
//
// For COD the shipping data is validated and pushed onto the order; for
// gateway payment an invoice link is minted instead and the gateway
// collects shipping through its own flow. Either way the response status
// is pending: COD orders await delivery, gateway orders await the webhook
// payment confirmation.
func (s *Service) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// COD shipping data is checked before any backend call so a rejected
	// request never leaves an orphaned order behind.
	if req.PaymentMethod == model.PaymentCOD && req.ShippingInfo != nil {
		if err := s.validateShippingInfo(req.ShippingInfo); err != nil {
			return nil, err
		}
	}

	lineItems := make([]commerce.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		lineItems[i] = commerce.LineItemInput{ProductID: item.ID, Quantity: item.Count}
	}

	order, err := s.backend.CreateOrder(ctx, lineItems, req.Comment, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"payment_method", req.PaymentMethod,
		"currency", order.Currency,
		"user_id", req.UserID)

	resp := &model.OrderResponse{
		OrderID:       order.ID,
		Status:        model.StatusPending,
		PaymentMethod: req.PaymentMethod,
	}

	switch req.PaymentMethod {
	case model.PaymentCOD:
		if req.ShippingInfo != nil {
			// The order already exists; an update failure is surfaced as-is
			// and the order is not rolled back.
			if err := s.backend.UpdateOrderInfo(ctx, order.ID, req.ShippingInfo); err != nil {
				return nil, err
			}
		}

	case model.PaymentTelegram:
		link, err := s.createInvoiceLink(ctx, order, req.ShippingZone)
		if err != nil {
			return nil, err
		}
		resp.InvoiceLink = link
	}

	s.publishEvent(ctx, events.OrderEvent{
		Type:          events.TypeOrderCreated,
		OrderID:       order.ID,
		PaymentMethod: string(req.PaymentMethod),
		Currency:      order.Currency,
		UserID:        req.UserID,
	})

	return resp, nil
}

// createInvoiceLink mints a gateway invoice for an existing backend order.
// The settlement currency must be in the gateway exponent table; an
// unknown currency aborts the order response rather than guessing a scale.
func (s *Service) createInvoiceLink(ctx context.Context, order *model.Order, shippingZone int) (string, error) {
	currency, ok := telegram.LookupCurrency(order.Currency)
	if !ok {
		return "", model.NewUnsupportedCurrencyError(order.Currency)
	}

	prices := make([]telegram.LabeledPrice, len(order.LineItems))
	for i, item := range order.LineItems {
		amount, err := model.MinorUnits(item.Total, currency.Exp)
		if err != nil {
			return "", model.NewInternalError(
				fmt.Errorf("order %d line %q total %q: %w", order.ID, item.Name, item.Total, err))
		}
		prices[i] = telegram.LabeledPrice{
			Label:  fmt.Sprintf("%s (x%d)", item.Name, item.Quantity),
			Amount: amount,
		}
	}

	payload, err := telegram.InvoicePayload{OrderID: order.ID, ShippingZone: shippingZone}.Encode()
	if err != nil {
		return "", model.NewInternalError(err)
	}

	// The gateway collects the buyer's contact and shipping data during
	// its own flow; is_flexible makes it issue a shipping query first.
	inv := &telegram.Invoice{
		Title:               fmt.Sprintf("Order Invoice %d", order.ID),
		Description:         fmt.Sprintf("Payment invoice for %s", order.OrderKey),
		Payload:             payload,
		Currency:            currency.Code,
		Prices:              prices,
		IsFlexible:          true,
		NeedName:            true,
		NeedEmail:           true,
		NeedPhoneNumber:     true,
		NeedShippingAddress: true,
	}

	return s.gateway.CreateInvoiceLink(ctx, inv)
}

// validateShippingInfo re-checks the COD shipping data server-side. The
// client validates before submitting, but the orchestrator is a boundary
// service and does not trust callers.
func (s *Service) validateShippingInfo(info *model.ShippingInfo) error {
	err := s.validate.Struct(info)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return model.NewValidationError("shippingInfo", err.Error())
	}
	first := fieldErrs[0]
	return model.NewValidationError(first.Field(), "required")
}

// publishEvent emits a lifecycle event. Publishing is best effort and
// never fails the order flow.
func (s *Service) publishEvent(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("order event publish failed",
			"type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

// validateRequest checks the request shape before any backend call.
func validateRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("request", "missing body")
	}
	if len(req.Items) == 0 {
		return model.NewValidationError("items", "order has no items")
	}
	for _, item := range req.Items {
		if item.ID <= 0 {
			return model.NewValidationError("items", "product id must be positive")
		}
		if item.Count <= 0 {
			return model.NewValidationError("items", "count must be positive")
		}
	}
	if !req.PaymentMethod.Valid() {
		return model.NewValidationError("paymentMethod", fmt.Sprintf("unknown method %q", req.PaymentMethod))
	}
	return nil
}
