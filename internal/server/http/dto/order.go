package dto

import "time"

// CreateOrderRequest is the checkout submission.
type CreateOrderRequest struct {
	ServiceType    string   `json:"serviceType" binding:"required"`
	Addons         []string `json:"addons" binding:"max=32,dive,max=64"`
	HostingType    string   `json:"hostingType" binding:"required"`
	Email          string   `json:"email" binding:"required,email,max=254"`
	ProjectDetails string   `json:"projectDetails" binding:"max=5000"`
}

// CheckoutResponse is returned once a payment intent is attached to the order.
type CheckoutResponse struct {
	OrderID                 int64  `json:"orderId"`
	ClientConfirmationToken string `json:"clientConfirmationToken"`
	PaymentIntentID         string `json:"paymentIntentId"`
	TotalAmount             string `json:"totalAmount"`
	Currency                string `json:"currency"`
}

// AddonResponse is a priced add-on on an order.
type AddonResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ClientOrderResponse is the customer-facing order projection.
type ClientOrderResponse struct {
	OrderID        int64           `json:"orderId"`
	ServiceType    string          `json:"serviceType"`
	Status         string          `json:"status"`
	Progress       int             `json:"progress"`
	ProgressStage  string          `json:"progressStage"`
	TotalAmount    string          `json:"totalAmount"`
	Currency       string          `json:"currency"`
	Addons         []AddonResponse `json:"addons"`
	HostingType    string          `json:"hostingType"`
	HostingPrice   string          `json:"hostingPrice"`
	ProjectDetails string          `json:"projectDetails,omitempty"`
	ClientNotes    string          `json:"clientNotes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
}

// AdminOrderResponse exposes every order field to staff.
type AdminOrderResponse struct {
	ID              int64           `json:"id"`
	CustomerEmail   string          `json:"customerEmail"`
	ServiceType     string          `json:"serviceType"`
	BasePrice       string          `json:"basePrice"`
	Addons          []AddonResponse `json:"addons"`
	HostingType     string          `json:"hostingType"`
	HostingPrice    string          `json:"hostingPrice"`
	TotalAmount     string          `json:"totalAmount"`
	Currency        string          `json:"currency"`
	PaymentIntentID *string         `json:"paymentIntentId"`
	Status          string          `json:"status"`
	Progress        int             `json:"progress"`
	ProgressStage   string          `json:"progressStage"`
	ProjectDetails  string          `json:"projectDetails"`
	ClientNotes     string          `json:"clientNotes"`
	InternalNotes   string          `json:"internalNotes"`
	PaidAt          *time.Time      `json:"paidAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProgressUpdateRequest is an administrative lifecycle change; omitted fields stay untouched.
type ProgressUpdateRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending paid in_progress completed"`
	ProgressStage *string `json:"progressStage" binding:"omitempty,oneof=planning design development testing launch"`
	Progress      *int    `json:"progress" binding:"omitempty,min=0,max=100"`
	ClientNotes   *string `json:"clientNotes" binding:"omitempty,max=5000"`
	InternalNotes *string `json:"internalNotes" binding:"omitempty,max=5000"`
}

// ListOrdersQuery narrows the admin order listing.
type ListOrdersQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending paid in_progress completed"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}
