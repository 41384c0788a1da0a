package model

// StripeEvent is the envelope Stripe posts to the webhook endpoint.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object StripeCheckoutSession `json:"object"`
	} `json:"data"`
}

// StripeCheckoutSession is the subset of the Checkout Session object this
// service reads: metadata carries the prompt/image pair, customer and
// shipping details carry the recipient.
type StripeCheckoutSession struct {
	ID              string                 `json:"id"`
	URL             string                 `json:"url"`
	Status          string                 `json:"status"`
	Metadata        map[string]string      `json:"metadata"`
	CustomerDetails *StripeCustomerDetails `json:"customer_details"`
	ShippingDetails *StripeCustomerDetails `json:"shipping_details"`
}

type StripeCustomerDetails struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address *StripeAddress `json:"address"`
}

type StripeAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}
