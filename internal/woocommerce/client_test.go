package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tgstore/internal/commerce"
	"tgstore/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		StoreURL:       server.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// httptest serves plain HTTP; the browser transport is TLS-only.
	client.httpClient = server.Client()
	return client
}

func TestCreateOrder(t *testing.T) {
	var gotBody wooOrderRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/wp-json/wc/v3/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		// Static credentials must ride along as query parameters.
		q := r.URL.Query()
		if q.Get("consumer_key") != "ck_test" || q.Get("consumer_secret") != "cs_test" {
			t.Errorf("missing credentials in query: %v", q)
		}

		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Order{
			ID:       421,
			OrderKey: "wc_order_abc",
			Currency: "USD",
			LineItems: []model.OrderLineItem{
				{Name: "Tea", Quantity: 2, Total: "4.00"},
			},
		})
	})

	order, err := client.CreateOrder(context.Background(),
		[]commerce.LineItemInput{{ProductID: 7, Quantity: 2}}, "ring twice", model.PaymentCOD)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.ID != 421 || order.Currency != "USD" {
		t.Errorf("order = %+v", order)
	}
	if gotBody.SetPaid {
		t.Error("set_paid = true on creation, want false")
	}
	if gotBody.PaymentMethodTitle != "Cash on Delivery" {
		t.Errorf("payment_method_title = %q", gotBody.PaymentMethodTitle)
	}
	if len(gotBody.LineItems) != 1 || gotBody.LineItems[0].ProductID != 7 || gotBody.LineItems[0].Quantity != 2 {
		t.Errorf("line_items = %+v", gotBody.LineItems)
	}
	if gotBody.CustomerNote != "ring twice" {
		t.Errorf("customer_note = %q", gotBody.CustomerNote)
	}
}

func TestUpdateOrderInfoMapsBothAddresses(t *testing.T) {
	var gotBody wooOrderUpdate
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/wp-json/wc/v3/orders/421" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":421}`))
	})

	info := &model.ShippingInfo{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "555-0101",
		Address: model.Address{
			StreetLine1: "1 Main St",
			City:        "Hanoi",
			CountryCode: "VN",
			PostCode:    "100000",
		},
	}
	if err := client.UpdateOrderInfo(context.Background(), 421, info); err != nil {
		t.Fatalf("UpdateOrderInfo() error = %v", err)
	}

	if gotBody.Shipping == nil || gotBody.Billing == nil {
		t.Fatal("shipping or billing missing from update")
	}
	if gotBody.Shipping.Address1 != "1 Main St" || gotBody.Shipping.FirstName != "Alice" {
		t.Errorf("shipping = %+v", gotBody.Shipping)
	}
	// Contact details live on billing only.
	if gotBody.Billing.Email != "alice@example.com" || gotBody.Billing.Phone != "555-0101" {
		t.Errorf("billing = %+v", gotBody.Billing)
	}
	if gotBody.Shipping.Email != "" {
		t.Errorf("shipping carries email: %+v", gotBody.Shipping)
	}
	if gotBody.SetPaid != nil {
		t.Error("shipping update must not touch set_paid")
	}
}

func TestSetOrderPaid(t *testing.T) {
	var gotBody map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":421}`))
	})

	if err := client.SetOrderPaid(context.Background(), 421); err != nil {
		t.Fatalf("SetOrderPaid() error = %v", err)
	}
	if gotBody["set_paid"] != true {
		t.Errorf("body = %v, want set_paid true", gotBody)
	}
	if _, ok := gotBody["shipping"]; ok {
		t.Error("paid transition must not touch shipping")
	}
}

func TestShippingMethods(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/shipping/zones/3/methods" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"instance_id":1,"method_id":"flat_rate","method_title":"Flat rate","enabled":true},
			{"instance_id":2,"method_id":"local_pickup","method_title":"Pickup","enabled":false}
		]`))
	})

	methods, err := client.ShippingMethods(context.Background(), 3)
	if err != nil {
		t.Fatalf("ShippingMethods() error = %v", err)
	}
	if len(methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(methods))
	}
	if !methods[0].Enabled || methods[1].Enabled {
		t.Errorf("enabled flags = %v %v", methods[0].Enabled, methods[1].Enabled)
	}
}

func TestBackendErrorMapping(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"woocommerce_rest_cannot_create","message":"Sorry"}`))
	})

	_, err := client.CreateOrder(context.Background(),
		[]commerce.LineItemInput{{ProductID: 1, Quantity: 1}}, "", model.PaymentCOD)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, model.ErrBackend) {
		t.Errorf("error %v is not ErrBackend", err)
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Errorf("error %v does not map to a 500-class APIError", err)
	}
}

func TestProductsQuery(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "simple" || q.Get("page") != "2" || q.Get("per_page") != "12" || q.Get("category") != "7" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`[{"id":1,"name":"Tea","price":"2.00"}]`))
	})

	products, err := client.Products(context.Background(), commerce.ProductQuery{Page: 2, PerPage: 12, CategoryID: 7})
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if len(products) != 1 || products[0].Name != "Tea" {
		t.Errorf("products = %+v", products)
	}
}
