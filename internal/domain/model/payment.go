package model

import "github.com/shopspring/decimal"

// EventPaymentSucceeded is the processor event type confirming a payment.
const EventPaymentSucceeded = "payment_intent.succeeded"

// IntentStatusSucceeded is the processor status of a captured intent.
const IntentStatusSucceeded = "succeeded"

// IntentRequest describes a payment intent to create at the processor.
type IntentRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

// PaymentIntent is the processor-side charge attempt.
type PaymentIntent struct {
	ExternalID   string
	ClientSecret string
	Status       string
}

// PaymentEvent is a verified webhook notification.
type PaymentEvent struct {
	ID              string
	Type            string
	PaymentIntentID string
}

// ConfirmationResult describes the outcome of a payment confirmation.
type ConfirmationResult int

const (
	ConfirmationApplied ConfirmationResult = iota
	ConfirmationDuplicate
	ConfirmationUnmatched
)

func (r ConfirmationResult) String() string {
	switch r {
	case ConfirmationApplied:
		return "applied"
	case ConfirmationDuplicate:
		return "duplicate"
	case ConfirmationUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}
