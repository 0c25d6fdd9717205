package woocommerce

import "tgstore/internal/model"

// REST API v3 request/response shapes. Only the fields this service reads
// or writes are declared; the backend tolerates partial bodies.

// wooOrderRequest creates an order. set_paid is always false at creation;
// the paid transition happens later through wooOrderUpdate.
type wooOrderRequest struct {
	SetPaid            bool                `json:"set_paid"`
	LineItems          []wooLineItemInput  `json:"line_items"`
	CustomerNote       string              `json:"customer_note"`
	PaymentMethod      model.PaymentMethod `json:"payment_method"`
	PaymentMethodTitle string              `json:"payment_method_title"`
}

type wooLineItemInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// wooOrderUpdate is a partial PUT body. Nil fields are left untouched.
type wooOrderUpdate struct {
	SetPaid  *bool       `json:"set_paid,omitempty"`
	Shipping *wooAddress `json:"shipping,omitempty"`
	Billing  *wooAddress `json:"billing,omitempty"`
}

// wooAddress is the backend's address record, shared by billing and
// shipping with billing carrying the extra contact fields.
type wooAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// wooZoneMethod is one shipping method attached to a zone.
type wooZoneMethod struct {
	InstanceID  int    `json:"instance_id"`
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Enabled     bool   `json:"enabled"`
}

// wooErrorResponse is the backend's error body.
type wooErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
