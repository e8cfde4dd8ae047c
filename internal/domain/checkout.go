package domain

import "github.com/shopspring/decimal"

// FulfillmentMethod selects how an order reaches the customer.
type FulfillmentMethod string

const (
	FulfillmentPickup   FulfillmentMethod = "pickup"
	FulfillmentDelivery FulfillmentMethod = "delivery"
)

// Label returns the customer-facing name of the method.
func (m FulfillmentMethod) Label() string {
	if m == FulfillmentDelivery {
		return "Delivery"
	}
	return "Collection"
}

// Customer is the profile stored alongside the login credential; it seeds
// the checkout form's contact fields.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DeliveryDetails holds the address block collected when fulfillment is
// delivery. Postal is optional.
type DeliveryDetails struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Postal  string `json:"postal,omitempty"`
}

// CheckoutForm is the transient snapshot of the checkout page's inputs.
// It is never persisted.
type CheckoutForm struct {
	FullName      string
	Email         string
	Phone         string
	TermsAccepted bool
	Fulfillment   FulfillmentMethod
	Delivery      DeliveryDetails
}

// OrderItem is a line item reduced to the shape the payment endpoint
// expects; Price is the effective unit price.
type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderPayload is the body of the create-payment-session request.
// ClientReference is generated per submission for log correlation; the
// endpoint ignores unknown fields.
type OrderPayload struct {
	Items           []OrderItem      `json:"items"`
	Total           decimal.Decimal  `json:"total"`
	Email           string           `json:"email"`
	DeliveryDetails *DeliveryDetails `json:"deliveryDetails,omitempty"`
	CustomerName    string           `json:"customerName"`
	Phone           string           `json:"phone"`
	ClientReference string           `json:"clientReference,omitempty"`
}

// PaymentSession is the gateway handoff returned by the payment endpoint:
// an opaque field map to be posted to the gateway URL.
type PaymentSession struct {
	GatewayURL string
	Fields     map[string]string
}
