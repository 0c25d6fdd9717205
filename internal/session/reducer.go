package session

import (
	"fmt"
	"slices"
)

// Reduce applies one action and returns the next state. Pure: the input
// state is never mutated, and shared slices/maps are cloned before change.
//
// Unrecognized actions panic: dispatching an unknown variant is a
// programming error, not a runtime condition to tolerate.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetMode:
		s.Mode = act.Mode
		return s

	case SelectProduct:
		p := act.Product // snapshot copy, not an alias into the catalog
		s.SelectedProduct = &p
		s.Mode = ModeItem
		return s

	case SetLoading:
		s.Loading = true
		return s

	case ReplaceCatalogPage:
		// Stale-response guard: a page for a superseded category or an
		// out-of-order page is discarded without touching state.
		if act.CategoryID != s.selectedCategoryID() || s.Page != act.Page-1 {
			return s
		}
		s.Products = append(slices.Clone(s.Products), act.Products...)
		s.Page = act.Page
		s.HasMore = act.HasMore
		s.Loading = false
		return s

	case SetCategories:
		s.Categories = slices.Clone(act.Categories)
		return s

	case SelectCategory:
		if s.SelectedCategory != nil && s.SelectedCategory.ID == act.Category.ID {
			s.SelectedCategory = nil
		} else {
			c := act.Category
			s.SelectedCategory = &c
		}
		s.Products = nil
		s.Page = 0
		s.HasMore = true
		s.Loading = true
		return s

	case Increment:
		cart := cloneCart(s.Cart)
		item := cart[act.Product.ID]
		cart[act.Product.ID] = CartItem{Product: act.Product, Count: item.Count + 1}
		s.Cart = cart
		return s

	case Decrement:
		cart := cloneCart(s.Cart)
		item := cart[act.Product.ID]
		if item.Count <= 1 {
			delete(cart, act.Product.ID)
		} else {
			cart[act.Product.ID] = CartItem{Product: act.Product, Count: item.Count - 1}
		}
		s.Cart = cart
		return s

	case SetComment:
		s.Comment = act.Text
		return s

	case SetPaymentMethod:
		s.PaymentMethod = act.Method
		return s

	case SetShippingField:
		switch act.Field {
		case "name":
			s.ShippingInfo.Name = act.Value
		case "email":
			s.ShippingInfo.Email = act.Value
		case "phone":
			s.ShippingInfo.Phone = act.Value
		default:
			panic(fmt.Sprintf("session: unknown shipping field %q", act.Field))
		}
		return s

	case SetShippingAddressField:
		addr := &s.ShippingInfo.Address
		switch act.Field {
		case "street_line1":
			addr.StreetLine1 = act.Value
		case "street_line2":
			addr.StreetLine2 = act.Value
		case "city":
			addr.City = act.Value
		case "state":
			addr.State = act.Value
		case "country_code":
			addr.CountryCode = act.Value
		case "post_code":
			addr.PostCode = act.Value
		default:
			panic(fmt.Sprintf("session: unknown shipping address field %q", act.Field))
		}
		return s

	default:
		panic(fmt.Sprintf("session: unhandled action %T", a))
	}
}

func cloneCart(cart map[int]CartItem) map[int]CartItem {
	out := make(map[int]CartItem, len(cart))
	for k, v := range cart {
		out[k] = v
	}
	return out
}
