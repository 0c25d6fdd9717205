package commerce

import (
	"context"
	"errors"

	"tgstore/internal/model"
)

// Mock implements Backend for testing.
// Each method can be configured via function fields.
type Mock struct {
	CreateOrderFunc     func(ctx context.Context, items []LineItemInput, note string, method model.PaymentMethod) (*model.Order, error)
	UpdateOrderInfoFunc func(ctx context.Context, orderID int, info *model.ShippingInfo) error
	SetOrderPaidFunc    func(ctx context.Context, orderID int) error
	ShippingMethodsFunc func(ctx context.Context, zoneID int) ([]model.ShippingMethod, error)
	ProductsFunc        func(ctx context.Context, q ProductQuery) ([]model.Product, error)
	CategoriesFunc      func(ctx context.Context) ([]model.Category, error)
}

func (m *Mock) CreateOrder(ctx context.Context, items []LineItemInput, note string, method model.PaymentMethod) (*model.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, items, note, method)
	}
	return nil, errors.New("mock: CreateOrder not configured")
}

func (m *Mock) UpdateOrderInfo(ctx context.Context, orderID int, info *model.ShippingInfo) error {
	if m.UpdateOrderInfoFunc != nil {
		return m.UpdateOrderInfoFunc(ctx, orderID, info)
	}
	return nil
}

func (m *Mock) SetOrderPaid(ctx context.Context, orderID int) error {
	if m.SetOrderPaidFunc != nil {
		return m.SetOrderPaidFunc(ctx, orderID)
	}
	return nil
}

func (m *Mock) ShippingMethods(ctx context.Context, zoneID int) ([]model.ShippingMethod, error) {
	if m.ShippingMethodsFunc != nil {
		return m.ShippingMethodsFunc(ctx, zoneID)
	}
	return nil, nil
}

func (m *Mock) Products(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	if m.ProductsFunc != nil {
		return m.ProductsFunc(ctx, q)
	}
	return nil, nil
}

func (m *Mock) Categories(ctx context.Context) ([]model.Category, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, nil
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)
