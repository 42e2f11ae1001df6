package model

import "github.com/shopspring/decimal"

// OrderRequest is the client checkout submission.
type OrderRequest struct {
	ServiceType    ServiceType
	Addons         []string
	HostingType    HostingType
	Email          string
	ProjectDetails string
}

// CheckoutSession is returned once an order has a payment intent attached.
type CheckoutSession struct {
	OrderID         int64
	ClientSecret    string
	PaymentIntentID string
	Total           decimal.Decimal
	Currency        string
}
