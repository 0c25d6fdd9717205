// Package commerce defines the interface to the external commerce backend,
// the system of record for orders and the catalog. All shared order state
// lives behind this interface; the service itself holds none.
package commerce

import (
	"context"

	"tgstore/internal/model"
)

// LineItemInput is one order line in a creation request.
type LineItemInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// ProductQuery selects a catalog page.
type ProductQuery struct {
	Page       int // 1-based
	PerPage    int
	CategoryID int // 0 means all categories
}

// Backend abstracts the commerce system of record.
//
// CreateOrder is idempotent-unsafe: every call creates a new backend order.
// Callers are responsible for not double-submitting. No method retries;
// failures surface immediately.
type Backend interface {
	// CreateOrder creates an unpaid order from line items. The returned
	// order carries the backend id, order key, and settlement currency.
	CreateOrder(ctx context.Context, items []LineItemInput, note string, method model.PaymentMethod) (*model.Order, error)

	// UpdateOrderInfo pushes shipping and billing data onto an existing order.
	UpdateOrderInfo(ctx context.Context, orderID int, info *model.ShippingInfo) error

	// SetOrderPaid marks an order paid. Called exactly once per order, after
	// the gateway confirms payment.
	SetOrderPaid(ctx context.Context, orderID int) error

	// ShippingMethods lists the delivery methods configured for a zone,
	// enabled or not. Callers filter on the Enabled flag.
	ShippingMethods(ctx context.Context, zoneID int) ([]model.ShippingMethod, error)

	// Products lists one catalog page.
	Products(ctx context.Context, q ProductQuery) ([]model.Product, error)

	// Categories lists product categories.
	Categories(ctx context.Context) ([]model.Category, error)
}
