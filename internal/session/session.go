// Package session holds the client-side cart/order state machine.
//
// State is an immutable value: Reduce returns a new State per action and
// never mutates its input, so history and race reasoning stay trivial.
// All dispatches interleave on one logical thread; no locking. The only
// concurrency hazard — catalog fetch responses racing a category switch —
// is handled by the stale-response guard in Reduce.
package session

import (
	"tgstore/internal/model"
)

// Mode is the navigation mode of the mini-app.
type Mode string

const (
	// ModeStorefront browses the catalog.
	ModeStorefront Mode = "storefront"

	// ModeOrder reviews the cart before checkout.
	ModeOrder Mode = "order"

	// ModeItem views a single product.
	ModeItem Mode = "item"
)

// CartItem is one cart entry: a product snapshot plus quantity.
// Count is always >= 1; an entry that would drop to 0 is removed instead.
type CartItem struct {
	Product model.Product
	Count   int
}

// State is the complete client session state. Created once per app session,
// mutated exclusively through Reduce, discarded when the session ends.
type State struct {
	Mode    Mode
	Loading bool

	// Catalog pagination.
	Products         []model.Product
	Page             int
	HasMore          bool
	Categories       []model.Category
	SelectedCategory *model.Category

	// SelectedProduct is a snapshot copied at selection time, not a pointer
	// into Products: catalog contents are replaced wholesale on refetch.
	SelectedProduct *model.Product

	Cart map[int]CartItem

	Comment       string
	ShippingZone  int
	PaymentMethod model.PaymentMethod
	ShippingInfo  model.ShippingInfo
}

// New returns the initial session state with guest defaults and a
// placeholder address. userName, when known, pre-fills the shipping name.
func New(userName string) State {
	if userName == "" {
		userName = "Guest"
	}
	return State{
		Mode:          ModeStorefront,
		Loading:       true,
		HasMore:       true,
		Cart:          map[int]CartItem{},
		ShippingZone:  1,
		PaymentMethod: model.PaymentCOD,
		ShippingInfo: model.ShippingInfo{
			Name:  userName,
			Email: "default@example.com",
			Phone: "0000000000",
			Address: model.Address{
				StreetLine2: "N/A",
				City:        "Default City",
				State:       "Default State",
				CountryCode: "US",
				PostCode:    "00000",
			},
		},
	}
}

// CartQuantity returns the cart quantity for a product, 0 if absent.
func (s State) CartQuantity(productID int) int {
	return s.Cart[productID].Count
}

// selectedCategoryID returns the id of the selected category, 0 if none.
func (s State) selectedCategoryID() int {
	if s.SelectedCategory == nil {
		return 0
	}
	return s.SelectedCategory.ID
}
