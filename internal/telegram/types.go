package telegram

import "encoding/json"

// Bot API types for the subset of the payments flow this service uses.
// Field names follow https://core.telegram.org/bots/api.

// Update is one inbound webhook event. Exactly one of the event fields is
// set per update.
type Update struct {
	UpdateID         int64             `json:"update_id"`
	Message          *Message          `json:"message,omitempty"`
	ShippingQuery    *ShippingQuery    `json:"shipping_query,omitempty"`
	PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
}

// Message is an inbound chat message. Only text and payment confirmations
// are of interest here.
type Message struct {
	MessageID         int64              `json:"message_id"`
	From              *User              `json:"from,omitempty"`
	Chat              Chat               `json:"chat"`
	Text              string             `json:"text,omitempty"`
	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
}

// User is a Telegram account.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// Chat is a Telegram conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// ShippingQuery asks for available shipping options before checkout.
// InvoicePayload is the opaque correlation token round-tripped unchanged.
type ShippingQuery struct {
	ID              string          `json:"id"`
	From            User            `json:"from"`
	InvoicePayload  string          `json:"invoice_payload"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

// PreCheckoutQuery is the final confirmation request before the gateway
// charges the user. Answering false here is the last point at which the
// payment can be stopped.
type PreCheckoutQuery struct {
	ID             string     `json:"id"`
	From           User       `json:"from"`
	Currency       string     `json:"currency"`
	TotalAmount    int64      `json:"total_amount"`
	InvoicePayload string     `json:"invoice_payload"`
	OrderInfo      *OrderInfo `json:"order_info,omitempty"`
}

// SuccessfulPayment notifies that the gateway has charged the user.
type SuccessfulPayment struct {
	Currency                string `json:"currency"`
	TotalAmount             int64  `json:"total_amount"`
	InvoicePayload          string `json:"invoice_payload"`
	TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
	ProviderPaymentChargeID string `json:"provider_payment_charge_id"`
}

// OrderInfo is the buyer data the gateway collected during its own flow.
type OrderInfo struct {
	Name            string           `json:"name,omitempty"`
	PhoneNumber     string           `json:"phone_number,omitempty"`
	Email           string           `json:"email,omitempty"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

// ShippingAddress is a postal address in the gateway's shape.
type ShippingAddress struct {
	CountryCode string `json:"country_code"`
	State       string `json:"state"`
	City        string `json:"city"`
	StreetLine1 string `json:"street_line1"`
	StreetLine2 string `json:"street_line2"`
	PostCode    string `json:"post_code"`
}

// LabeledPrice is one line of an invoice price list. Amount is in the
// currency's minor units.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// ShippingOption is one deliverable answer to a shipping query.
type ShippingOption struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Prices []LabeledPrice `json:"prices"`
}

// Invoice is the createInvoiceLink request. The gateway is instructed to
// collect name, email, phone, and shipping address itself during the flow.
type Invoice struct {
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Payload             string         `json:"payload"`
	ProviderToken       string         `json:"provider_token"`
	Currency            string         `json:"currency"`
	Prices              []LabeledPrice `json:"prices"`
	IsFlexible          bool           `json:"is_flexible"`
	NeedName            bool           `json:"need_name"`
	NeedEmail           bool           `json:"need_email"`
	NeedPhoneNumber     bool           `json:"need_phone_number"`
	NeedShippingAddress bool           `json:"need_shipping_address"`
}

// apiResponse is the Bot API envelope wrapping every method result.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}
