package test

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// GatewayStub imitates the payment processor.
type GatewayStub struct {
	CreateFn   func(context.Context, model.IntentRequest) (*model.PaymentIntent, error)
	RetrieveFn func(context.Context, string) (*model.PaymentIntent, error)
	VerifyFn   func([]byte, string) (*model.PaymentEvent, error)

	mu        sync.Mutex
	Requests  []model.IntentRequest
	Retrieved []string
}

// CreateIntent records req and returns a deterministic intent.
func (s *GatewayStub) CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	n := len(s.Requests)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	id := fmt.Sprintf("pi_test_%d", n)
	return &model.PaymentIntent{ExternalID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

// RetrieveIntent returns the configured intent state.
func (s *GatewayStub) RetrieveIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	s.mu.Lock()
	s.Retrieved = append(s.Retrieved, id)
	s.mu.Unlock()
	if s.RetrieveFn != nil {
		return s.RetrieveFn(ctx, id)
	}
	return &model.PaymentIntent{ExternalID: id, Status: model.IntentStatusSucceeded}, nil
}

// VerifyWebhook accepts the signature "valid" and treats the payload as the intent id.
func (s *GatewayStub) VerifyWebhook(payload []byte, signature string) (*model.PaymentEvent, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(payload, signature)
	}
	if signature != "valid" {
		return nil, domainErrors.ErrInvalidSignature
	}
	return &model.PaymentEvent{ID: "evt_test", Type: model.EventPaymentSucceeded, PaymentIntentID: string(payload)}, nil
}

// RequestCount returns the number of CreateIntent calls.
func (s *GatewayStub) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// RetrievedIDs returns a copy of ids passed to RetrieveIntent.
func (s *GatewayStub) RetrievedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Retrieved...)
}
