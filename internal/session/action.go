package session

import (
	"tgstore/internal/model"
)

// Action is a tagged variant dispatched against the session state.
// The set of variants is closed: Reduce panics on anything else.
type Action interface {
	isAction()
}

// SetMode switches the navigation mode without touching anything else.
type SetMode struct {
	Mode Mode
}

// SelectProduct switches to item view and records a snapshot copy of the
// product for display.
type SelectProduct struct {
	Product model.Product
}

// SetLoading marks a catalog fetch as in flight.
type SetLoading struct{}

// ReplaceCatalogPage commits a fetched catalog page. It is accepted only if
// CategoryID matches the currently selected category and Page-1 equals the
// last committed page; anything else is a stale response from a superseded
// fetch and is silently discarded.
type ReplaceCatalogPage struct {
	Products   []model.Product
	HasMore    bool
	Page       int
	CategoryID int
}

// SetCategories replaces the category list.
type SetCategories struct {
	Categories []model.Category
}

// SelectCategory toggles category selection. Selecting the already-selected
// category clears it. Either way pagination resets; any in-flight fetch for
// the old category is discarded later by the ReplaceCatalogPage guard.
type SelectCategory struct {
	Category model.Category
}

// Increment adds one unit of a product to the cart.
type Increment struct {
	Product model.Product
}

// Decrement removes one unit; dropping below 1 removes the entry.
type Decrement struct {
	Product model.Product
}

// SetComment replaces the free-text order comment.
type SetComment struct {
	Text string
}

// SetPaymentMethod replaces the chosen payment method.
type SetPaymentMethod struct {
	Method model.PaymentMethod
}

// SetShippingField merges one top-level shipping field (name, email, phone)
// without disturbing the others.
type SetShippingField struct {
	Field string
	Value string
}

// SetShippingAddressField merges one nested address field without
// disturbing the others.
type SetShippingAddressField struct {
	Field string
	Value string
}

func (SetMode) isAction()                 {}
func (SelectProduct) isAction()           {}
func (SetLoading) isAction()              {}
func (ReplaceCatalogPage) isAction()      {}
func (SetCategories) isAction()           {}
func (SelectCategory) isAction()          {}
func (Increment) isAction()               {}
func (Decrement) isAction()               {}
func (SetComment) isAction()              {}
func (SetPaymentMethod) isAction()        {}
func (SetShippingField) isAction()        {}
func (SetShippingAddressField) isAction() {}
