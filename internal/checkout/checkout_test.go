package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tgstore/internal/model"
	"tgstore/internal/session"
)

// runtimeMock records the UI calls the checkout flow makes. OpenInvoice
// immediately reports invoiceStatus to the callback.
type runtimeMock struct {
	version       string
	invoiceStatus InvoiceStatus

	alerts        []string
	openedLink    string
	closed        bool
	hapticErrors  int
	hapticWarns   int
	progressDepth int
}

func (r *runtimeMock) Version() string               { return r.version }
func (r *runtimeMock) Identity() (int64, int64)      { return 77, 88 }
func (r *runtimeMock) ShowProgress()                 { r.progressDepth++ }
func (r *runtimeMock) HideProgress()                 { r.progressDepth-- }
func (r *runtimeMock) ShowAlert(text string)         { r.alerts = append(r.alerts, text) }
func (r *runtimeMock) HapticError()                  { r.hapticErrors++ }
func (r *runtimeMock) HapticWarning()                { r.hapticWarns++ }
func (r *runtimeMock) Close()                        { r.closed = true }

func (r *runtimeMock) OpenInvoice(link string, onStatus func(InvoiceStatus)) {
	r.openedLink = link
	onStatus(r.invoiceStatus)
}

type apiMock struct {
	placeOrderFunc func(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)
	gotRequest     *model.OrderRequest
}

func (a *apiMock) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	a.gotRequest = req
	if a.placeOrderFunc != nil {
		return a.placeOrderFunc(ctx, req)
	}
	return nil, errors.New("mock: PlaceOrder not configured")
}

func cartState(method model.PaymentMethod) session.State {
	state := session.New("Alice")
	state.PaymentMethod = method
	state.ShippingInfo.Address.StreetLine1 = "1 Main St"
	state.Cart = map[int]session.CartItem{
		9: {Product: model.Product{ID: 9, Name: "Honey"}, Count: 1},
		7: {Product: model.Product{ID: 7, Name: "Tea"}, Count: 2},
	}
	state.Comment = "ring twice"
	state.ShippingZone = 3
	return state
}

func TestCheckoutCOD(t *testing.T) {
	runtime := &runtimeMock{version: "7.2"}
	api := &apiMock{
		placeOrderFunc: func(_ context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
			return &model.OrderResponse{OrderID: 421, Status: model.StatusPending, PaymentMethod: model.PaymentCOD}, nil
		},
	}

	if err := Checkout(context.Background(), cartState(model.PaymentCOD), runtime, api); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	req := api.gotRequest
	if req == nil {
		t.Fatal("no request submitted")
	}
	// Items ride in product-id order regardless of map iteration.
	if len(req.Items) != 2 || req.Items[0] != (model.OrderItem{ID: 7, Count: 2}) || req.Items[1] != (model.OrderItem{ID: 9, Count: 1}) {
		t.Errorf("items = %+v", req.Items)
	}
	if req.ShippingInfo == nil || req.ShippingInfo.Name != "Alice" {
		t.Errorf("shipping info = %+v", req.ShippingInfo)
	}
	if req.UserID != 77 || req.ChatID != 88 {
		t.Errorf("identity = %d/%d", req.UserID, req.ChatID)
	}

	if !runtime.closed {
		t.Error("session not closed after delivery confirmation")
	}
	if len(runtime.alerts) != 1 || !strings.Contains(runtime.alerts[0], "Order #421") {
		t.Errorf("alerts = %v", runtime.alerts)
	}
	if runtime.progressDepth != 0 {
		t.Errorf("progress indicator left at depth %d", runtime.progressDepth)
	}
}

func TestCheckoutCODValidationOrder(t *testing.T) {
	// Clearing fields one at a time from the end verifies the first
	// missing field wins.
	clearers := []struct {
		field string
		clear func(*session.State)
	}{
		{"name", func(s *session.State) { s.ShippingInfo.Name = "" }},
		{"phone", func(s *session.State) { s.ShippingInfo.Phone = "" }},
		{"street_line1", func(s *session.State) { s.ShippingInfo.Address.StreetLine1 = "" }},
		{"city", func(s *session.State) { s.ShippingInfo.Address.City = "" }},
		{"post_code", func(s *session.State) { s.ShippingInfo.Address.PostCode = "" }},
		{"country_code", func(s *session.State) { s.ShippingInfo.Address.CountryCode = "" }},
	}

	for _, tt := range clearers {
		t.Run(tt.field, func(t *testing.T) {
			state := cartState(model.PaymentCOD)
			tt.clear(&state)

			runtime := &runtimeMock{version: "7.2"}
			api := &apiMock{}

			err := Checkout(context.Background(), state, runtime, api)
			if !errors.Is(err, model.ErrInvalidRequest) {
				t.Fatalf("error = %v, want validation failure", err)
			}
			if api.gotRequest != nil {
				t.Error("validation failure must not reach the network")
			}
			if len(runtime.alerts) != 1 || !strings.Contains(runtime.alerts[0], tt.field) {
				t.Errorf("alerts = %v, want mention of %q", runtime.alerts, tt.field)
			}
		})
	}
}

func TestCheckoutTelegramOpensInvoice(t *testing.T) {
	statuses := []struct {
		status     InvoiceStatus
		wantClosed bool
		wantErrors int
		wantWarns  int
	}{
		{StatusPaid, true, 0, 0},
		{StatusFailed, false, 1, 0},
		{StatusCancelled, false, 0, 1},
		{StatusPending, false, 0, 1},
	}

	for _, tt := range statuses {
		t.Run(string(tt.status), func(t *testing.T) {
			runtime := &runtimeMock{version: "7.2", invoiceStatus: tt.status}
			api := &apiMock{
				placeOrderFunc: func(context.Context, *model.OrderRequest) (*model.OrderResponse, error) {
					return &model.OrderResponse{
						OrderID:       421,
						Status:        model.StatusPending,
						PaymentMethod: model.PaymentTelegram,
						InvoiceLink:   "https://t.me/invoice/abc",
					}, nil
				},
			}

			if err := Checkout(context.Background(), cartState(model.PaymentTelegram), runtime, api); err != nil {
				t.Fatalf("Checkout() error = %v", err)
			}

			if runtime.openedLink != "https://t.me/invoice/abc" {
				t.Errorf("opened link = %q", runtime.openedLink)
			}
			if runtime.closed != tt.wantClosed {
				t.Errorf("closed = %v, want %v", runtime.closed, tt.wantClosed)
			}
			if runtime.hapticErrors != tt.wantErrors || runtime.hapticWarns != tt.wantWarns {
				t.Errorf("haptics = %d errors / %d warnings", runtime.hapticErrors, runtime.hapticWarns)
			}
			if runtime.progressDepth != 0 {
				t.Errorf("progress indicator left at depth %d", runtime.progressDepth)
			}
		})
	}
}

func TestCheckoutTelegramOldRuntime(t *testing.T) {
	runtime := &runtimeMock{version: "6.0"}
	api := &apiMock{
		placeOrderFunc: func(context.Context, *model.OrderRequest) (*model.OrderResponse, error) {
			return &model.OrderResponse{
				OrderID:       421,
				PaymentMethod: model.PaymentTelegram,
				InvoiceLink:   "https://t.me/invoice/abc",
			}, nil
		},
	}

	err := Checkout(context.Background(), cartState(model.PaymentTelegram), runtime, api)
	if !errors.Is(err, model.ErrGatewayCapability) {
		t.Fatalf("error = %v, want capability failure", err)
	}
	if runtime.openedLink != "" {
		t.Error("invoice opened on an unsupported runtime")
	}
	if len(runtime.alerts) != 1 || !strings.Contains(runtime.alerts[0], "6.1") {
		t.Errorf("alerts = %v", runtime.alerts)
	}
}

func TestCheckoutSubmitFailure(t *testing.T) {
	runtime := &runtimeMock{version: "7.2"}
	api := &apiMock{
		placeOrderFunc: func(context.Context, *model.OrderRequest) (*model.OrderResponse, error) {
			return nil, errors.New("connection refused")
		},
	}

	state := cartState(model.PaymentTelegram)
	err := Checkout(context.Background(), state, runtime, api)
	if err == nil {
		t.Fatal("expected submit error")
	}
	if len(runtime.alerts) != 1 || runtime.alerts[0] != msgProcessingError {
		t.Errorf("alerts = %v", runtime.alerts)
	}
	if runtime.closed {
		t.Error("session closed on failure")
	}
}
