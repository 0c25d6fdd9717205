package telegram

import (
	"testing"
)

func TestInvoicePayloadRoundTrip(t *testing.T) {
	encoded, err := InvoicePayload{OrderID: 421, ShippingZone: 3}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := ParseInvoicePayload(encoded)
	if err != nil {
		t.Fatalf("ParseInvoicePayload(%q) error = %v", encoded, err)
	}
	if got.OrderID != 421 || got.ShippingZone != 3 {
		t.Errorf("round trip = %+v, want {421 3}", got)
	}
}

func TestParseInvoicePayloadRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "order 42"},
		{"empty", ""},
		{"wrong shape", `"just a string"`},
		{"missing order id", `{"shippingZone":1}`},
		{"zero order id", `{"orderId":0,"shippingZone":1}`},
		{"negative order id", `{"orderId":-5,"shippingZone":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInvoicePayload(tt.raw); err == nil {
				t.Errorf("ParseInvoicePayload(%q) accepted a foreign payload", tt.raw)
			}
		})
	}
}

func TestLookupCurrency(t *testing.T) {
	usd, ok := LookupCurrency("USD")
	if !ok || usd.Exp != 2 {
		t.Errorf("LookupCurrency(USD) = %+v, %v; want exp 2", usd, ok)
	}

	vnd, ok := LookupCurrency("VND")
	if !ok || vnd.Exp != 0 {
		t.Errorf("LookupCurrency(VND) = %+v, %v; want exp 0", vnd, ok)
	}

	if _, ok := LookupCurrency("XAU"); ok {
		t.Error("LookupCurrency(XAU) = ok, want missing")
	}
}
