package telegram

import (
	"encoding/json"
	"fmt"
)

// InvoicePayload is the opaque correlation token embedded in an invoice and
// echoed back in every gateway webhook event. It is the only channel
// carrying order identity through the payment round-trips.
type InvoicePayload struct {
	OrderID      int `json:"orderId"`
	ShippingZone int `json:"shippingZone"`
}

// Encode serializes the payload for the invoice's payload field.
func (p InvoicePayload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding invoice payload: %w", err)
	}
	return string(data), nil
}

// ParseInvoicePayload decodes a webhook payload field. A malformed or
// foreign payload (missing or non-positive order id) is rejected, never
// guessed: handlers must refuse the event rather than touch the wrong order.
func ParseInvoicePayload(raw string) (InvoicePayload, error) {
	var p InvoicePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return InvoicePayload{}, fmt.Errorf("malformed invoice payload: %w", err)
	}
	if p.OrderID <= 0 {
		return InvoicePayload{}, fmt.Errorf("invoice payload missing order id")
	}
	return p, nil
}
