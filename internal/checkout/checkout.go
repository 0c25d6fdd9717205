// Package checkout drives the client-side checkout: local validation,
// order submission, and the payment branch (delivery confirmation or the
// gateway invoice flow).
//
// Checkout never mutates the session state it reads. Re-entry during an
// in-flight checkout is suppressed only by the runtime's progress
// indicator; the flow itself does not enforce exclusion.
package checkout

import (
	"context"
	"fmt"
	"sort"

	"tgstore/internal/clientinfo"
	"tgstore/internal/model"
	"tgstore/internal/session"
)

// InvoiceStatus is the terminal status the runtime reports after the
// gateway invoice sheet closes.
type InvoiceStatus string

const (
	StatusPaid      InvoiceStatus = "paid"
	StatusFailed    InvoiceStatus = "failed"
	StatusCancelled InvoiceStatus = "cancelled"
	StatusPending   InvoiceStatus = "pending"
)

// User-facing alert texts.
const (
	msgUpgradeRequired = "Telegram payment requires app version " + clientinfo.MinInvoiceVersion + " or higher. Please update your Telegram app!"
	msgProcessingError = "An error occurred while processing your order!"
	msgPaymentFailed   = "Payment failed. Please try again."
)

// Runtime abstracts the Telegram WebApp surface the checkout flow drives.
type Runtime interface {
	// Version is the Telegram WebApp version string, e.g. "7.2".
	Version() string

	// Identity reports the Telegram user and chat behind the session,
	// zero when unknown.
	Identity() (userID, chatID int64)

	ShowProgress()
	HideProgress()
	ShowAlert(text string)
	HapticError()
	HapticWarning()

	// OpenInvoice opens a gateway invoice sheet and calls onStatus once
	// with the terminal status.
	OpenInvoice(link string, onStatus func(InvoiceStatus))

	Close()
}

// API submits order requests to the orchestrator.
type API interface {
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)
}

// Checkout validates the session, submits the order, and drives the
// response. On any failure the session state is left untouched so the
// user can correct and re-invoke.
func Checkout(ctx context.Context, state session.State, runtime Runtime, api API) error {
	runtime.ShowProgress()

	// Delivery orders carry the locally collected shipping data, so it is
	// checked before anything touches the network.
	if state.PaymentMethod == model.PaymentCOD {
		if field, ok := firstMissingShippingField(state.ShippingInfo); ok {
			runtime.HideProgress()
			runtime.ShowAlert(fmt.Sprintf("Please provide your %s!", field))
			return model.NewValidationError(field, "required")
		}
	}

	req := buildRequest(state, runtime)

	resp, err := api.PlaceOrder(ctx, req)
	if err != nil {
		runtime.HideProgress()
		runtime.ShowAlert(msgProcessingError)
		return err
	}

	if resp.PaymentMethod == model.PaymentCOD {
		runtime.HideProgress()
		runtime.ShowAlert(fmt.Sprintf("Order #%d has been placed successfully! You will pay on delivery.", resp.OrderID))
		runtime.Close()
		return nil
	}

	// Gateway payment: the invoice sheet needs a recent WebApp runtime.
	// An old runtime is reported once and the checkout stops; the order
	// already exists and support can recover it.
	if !clientinfo.AtLeast(runtime.Version(), clientinfo.MinInvoiceVersion) {
		runtime.HideProgress()
		runtime.ShowAlert(msgUpgradeRequired)
		return model.NewCapabilityError(clientinfo.MinInvoiceVersion)
	}

	runtime.OpenInvoice(resp.InvoiceLink, func(status InvoiceStatus) {
		runtime.HideProgress()
		switch status {
		case StatusPaid:
			runtime.Close()
		case StatusFailed:
			runtime.ShowAlert(msgPaymentFailed)
			runtime.HapticError()
		case StatusCancelled, StatusPending:
			runtime.HapticWarning()
		}
	})
	return nil
}

// buildRequest serializes the cart into an order request. Items are
// ordered by product id so identical carts serialize identically.
func buildRequest(state session.State, runtime Runtime) *model.OrderRequest {
	items := make([]model.OrderItem, 0, len(state.Cart))
	for id, item := range state.Cart {
		items = append(items, model.OrderItem{ID: id, Count: item.Count})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	userID, chatID := runtime.Identity()

	req := &model.OrderRequest{
		Items:         items,
		PaymentMethod: state.PaymentMethod,
		Comment:       state.Comment,
		ShippingZone:  state.ShippingZone,
		UserID:        userID,
		ChatID:        chatID,
	}
	if state.PaymentMethod == model.PaymentCOD {
		info := state.ShippingInfo
		req.ShippingInfo = &info
	}
	return req
}

// firstMissingShippingField checks the delivery-required fields in a fixed
// order and names the first empty one.
func firstMissingShippingField(info model.ShippingInfo) (string, bool) {
	checks := []struct {
		field string
		value string
	}{
		{"name", info.Name},
		{"phone", info.Phone},
		{"street_line1", info.Address.StreetLine1},
		{"city", info.Address.City},
		{"post_code", info.Address.PostCode},
		{"country_code", info.Address.CountryCode},
	}
	for _, check := range checks {
		if check.value == "" {
			return check.field, true
		}
	}
	return "", false
}
