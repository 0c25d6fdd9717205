package session

import (
	"testing"

	"tgstore/internal/model"
)

var (
	tea    = model.Product{ID: 1, Name: "Tea", Price: "2.00"}
	coffee = model.Product{ID: 2, Name: "Coffee", Price: "3.50"}
	drinks = model.Category{ID: 7, Name: "Drinks", Count: 2}
	snacks = model.Category{ID: 9, Name: "Snacks", Count: 5}
)

func TestCartIncrementDecrement(t *testing.T) {
	s := New("")

	s = Reduce(s, Increment{Product: tea})
	s = Reduce(s, Increment{Product: tea})
	s = Reduce(s, Increment{Product: coffee})

	if got := s.CartQuantity(tea.ID); got != 2 {
		t.Errorf("tea quantity = %d, want 2", got)
	}
	if got := s.CartQuantity(coffee.ID); got != 1 {
		t.Errorf("coffee quantity = %d, want 1", got)
	}

	s = Reduce(s, Decrement{Product: tea})
	if got := s.CartQuantity(tea.ID); got != 1 {
		t.Errorf("tea quantity after dec = %d, want 1", got)
	}

	// Dropping below 1 removes the entry entirely.
	s = Reduce(s, Decrement{Product: tea})
	if _, ok := s.Cart[tea.ID]; ok {
		t.Error("tea still present in cart after decrementing to zero")
	}

	// Decrementing an absent product stays absent, never negative.
	s = Reduce(s, Decrement{Product: tea})
	if _, ok := s.Cart[tea.ID]; ok {
		t.Error("decrement of absent product created an entry")
	}
}

func TestCartQuantityNeverZeroOrNegative(t *testing.T) {
	s := New("")
	ops := []Action{
		Increment{Product: tea}, Increment{Product: tea},
		Decrement{Product: tea}, Decrement{Product: tea},
		Decrement{Product: tea}, Increment{Product: tea},
	}
	for _, op := range ops {
		s = Reduce(s, op)
		for id, item := range s.Cart {
			if item.Count < 1 {
				t.Fatalf("cart entry %d has quantity %d after %T", id, item.Count, op)
			}
		}
	}
	if got := s.CartQuantity(tea.ID); got != 1 {
		t.Errorf("final tea quantity = %d, want 1", got)
	}
}

func TestReduceIsPure(t *testing.T) {
	before := New("")
	before = Reduce(before, Increment{Product: tea})

	_ = Reduce(before, Increment{Product: tea})
	_ = Reduce(before, Decrement{Product: tea})

	if got := before.CartQuantity(tea.ID); got != 1 {
		t.Errorf("input state mutated: tea quantity = %d, want 1", got)
	}
}

func TestSelectCategoryToggle(t *testing.T) {
	s := New("")
	s = Reduce(s, ReplaceCatalogPage{Products: []model.Product{tea}, Page: 1, HasMore: true})

	s = Reduce(s, SelectCategory{Category: drinks})
	if s.SelectedCategory == nil || s.SelectedCategory.ID != drinks.ID {
		t.Fatal("category not selected")
	}
	if len(s.Products) != 0 || s.Page != 0 || !s.HasMore {
		t.Errorf("pagination not reset on select: products=%d page=%d hasMore=%v",
			len(s.Products), s.Page, s.HasMore)
	}

	// Selecting the same category again clears the selection and resets.
	s = Reduce(s, ReplaceCatalogPage{Products: []model.Product{tea}, Page: 1, HasMore: false, CategoryID: drinks.ID})
	s = Reduce(s, SelectCategory{Category: drinks})
	if s.SelectedCategory != nil {
		t.Error("selected category not cleared by re-selection")
	}
	if len(s.Products) != 0 || s.Page != 0 || !s.HasMore {
		t.Errorf("pagination not reset on toggle-off: products=%d page=%d hasMore=%v",
			len(s.Products), s.Page, s.HasMore)
	}
}

func TestReplaceCatalogPageStaleGuard(t *testing.T) {
	tests := []struct {
		name       string
		setup      []Action
		page       ReplaceCatalogPage
		wantCount  int
		wantPage   int
		wantChange bool
	}{
		{
			name:       "first page accepted",
			page:       ReplaceCatalogPage{Products: []model.Product{tea}, Page: 1, HasMore: true},
			wantCount:  1,
			wantPage:   1,
			wantChange: true,
		},
		{
			name:  "out of order page discarded",
			setup: []Action{ReplaceCatalogPage{Products: []model.Product{tea}, Page: 1, HasMore: true}},
			page:  ReplaceCatalogPage{Products: []model.Product{coffee}, Page: 3, HasMore: true},
			// page 3 after committed page 1: stale, state unchanged
			wantCount: 1,
			wantPage:  1,
		},
		{
			name:  "superseded category discarded",
			setup: []Action{SelectCategory{Category: drinks}},
			page:  ReplaceCatalogPage{Products: []model.Product{coffee}, Page: 1, CategoryID: snacks.ID},
			// response for a category no longer selected
			wantCount: 0,
			wantPage:  0,
		},
		{
			name:      "matching category accepted",
			setup:     []Action{SelectCategory{Category: drinks}},
			page:      ReplaceCatalogPage{Products: []model.Product{tea, coffee}, Page: 1, CategoryID: drinks.ID},
			wantCount: 2,
			wantPage:  1,
		},
		{
			name: "uncategorized response after category switch discarded",
			setup: []Action{
				ReplaceCatalogPage{Products: []model.Product{tea}, Page: 1, HasMore: true},
				SelectCategory{Category: drinks},
			},
			page:      ReplaceCatalogPage{Products: []model.Product{coffee}, Page: 2},
			wantCount: 0,
			wantPage:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("")
			for _, a := range tt.setup {
				s = Reduce(s, a)
			}
			s = Reduce(s, tt.page)

			if len(s.Products) != tt.wantCount {
				t.Errorf("products = %d, want %d", len(s.Products), tt.wantCount)
			}
			if s.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", s.Page, tt.wantPage)
			}
		})
	}
}

func TestSelectProductCopiesSnapshot(t *testing.T) {
	s := New("")
	p := tea
	s = Reduce(s, SelectProduct{Product: p})

	if s.Mode != ModeItem {
		t.Errorf("mode = %s, want %s", s.Mode, ModeItem)
	}

	// Mutating the caller's product must not reach the recorded snapshot.
	p.Name = "Mutated"
	if s.SelectedProduct.Name != "Tea" {
		t.Errorf("selected product aliased caller value: name = %s", s.SelectedProduct.Name)
	}
}

func TestShippingFieldMerge(t *testing.T) {
	s := New("@alice")
	s = Reduce(s, SetShippingAddressField{Field: "street_line1", Value: "1 Main St"})
	s = Reduce(s, SetShippingAddressField{Field: "city", Value: "Hanoi"})
	s = Reduce(s, SetShippingField{Field: "phone", Value: "555-0101"})

	info := s.ShippingInfo
	if info.Address.StreetLine1 != "1 Main St" || info.Address.City != "Hanoi" {
		t.Errorf("address merge lost fields: %+v", info.Address)
	}
	// Untouched fields keep their defaults.
	if info.Address.CountryCode != "US" || info.Address.PostCode != "00000" {
		t.Errorf("untouched address fields disturbed: %+v", info.Address)
	}
	if info.Name != "@alice" {
		t.Errorf("name disturbed by unrelated merges: %s", info.Name)
	}
	if info.Phone != "555-0101" {
		t.Errorf("phone = %s, want 555-0101", info.Phone)
	}
}

func TestUnknownActionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Reduce did not panic on unknown action")
		}
	}()

	type rogue struct{ Action }
	Reduce(New(""), rogue{})
}

func TestUnknownShippingFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Reduce did not panic on unknown shipping field")
		}
	}()

	Reduce(New(""), SetShippingField{Field: "fax", Value: "nope"})
}
