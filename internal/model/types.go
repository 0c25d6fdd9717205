// Package model defines the wire types and error taxonomy shared across
// the storefront service, the webhook handlers, and the client packages.
package model

// PaymentMethod selects how an order is settled.
type PaymentMethod string

const (
	// PaymentCOD settles outside the system at delivery time.
	PaymentCOD PaymentMethod = "cod"

	// PaymentTelegram settles through the Telegram invoice flow.
	PaymentTelegram PaymentMethod = "telegram"
)

// Title returns the human-readable payment method label stored on the
// backend order.
func (m PaymentMethod) Title() string {
	if m == PaymentCOD {
		return "Cash on Delivery"
	}
	return "Telegram Payment"
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentTelegram
}

// Address is a postal address in the shape the Telegram gateway collects it.
type Address struct {
	StreetLine1 string `json:"street_line1" validate:"required"`
	StreetLine2 string `json:"street_line2,omitempty"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state,omitempty"`
	CountryCode string `json:"country_code" validate:"required"`
	PostCode    string `json:"post_code" validate:"required"`
}

// ShippingInfo is the buyer contact and delivery data attached to an order.
// Email and phone are optional for gateway orders; the gateway collects its
// own copy during the invoice flow.
type ShippingInfo struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty" validate:"required"`
	Address Address `json:"address"`
}

// OrderItem is one cart entry in an order request.
type OrderItem struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// OrderRequest is the client → orchestrator order creation body.
type OrderRequest struct {
	Items         []OrderItem   `json:"items"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Comment       string        `json:"comment,omitempty"`
	ShippingZone  int           `json:"shippingZone"`
	ShippingInfo  *ShippingInfo `json:"shippingInfo,omitempty"`

	// Identifying chat user metadata, carried through for support lookups.
	UserID int64 `json:"userId,omitempty"`
	ChatID int64 `json:"chatId,omitempty"`
}

// OrderStatus is the orchestrator-visible order state.
type OrderStatus string

// StatusPending is the only status the orchestrator ever returns: the
// backend order exists and awaits either delivery (COD) or payment.
const StatusPending OrderStatus = "pending"

// OrderResponse is the orchestrator → client order creation result.
type OrderResponse struct {
	OrderID       int           `json:"order_id"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	InvoiceLink   string        `json:"invoice_link,omitempty"`
}

// OrderLineItem is a backend order line as echoed by the commerce backend.
// Total is a decimal string in major currency units (e.g. "4.00").
type OrderLineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// Order is the commerce-backend order referenced by the orchestrator and
// the webhook handlers. Created once, mutated only by shipping updates and
// the paid-status transition.
type Order struct {
	ID            int             `json:"id"`
	OrderKey      string          `json:"order_key"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	LineItems     []OrderLineItem `json:"line_items"`
}

// ShippingMethod is one delivery method configured on a backend shipping zone.
type ShippingMethod struct {
	MethodID string `json:"method_id"`
	Title    string `json:"method_title"`
	Enabled  bool   `json:"enabled"`
}

// Product is a catalog product snapshot. Catalog contents are replaced
// wholesale on refetch, so holders must copy rather than alias entries.
type Product struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	Price            string `json:"price"`
	RegularPrice     string `json:"regular_price,omitempty"`
	SalePrice        string `json:"sale_price,omitempty"`
}

// Category is a catalog product category.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
