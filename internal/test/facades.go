package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
	"github.com/polkiloo/studiodesk/internal/pricing"
)

// CheckoutFacadeStub provides controllable behaviour for public checkout endpoints.
type CheckoutFacadeStub struct {
	CatalogVal    *pricing.Catalog
	CreateOrderFn func(context.Context, model.OrderRequest) (*model.CheckoutSession, error)
	OrderStatusFn func(context.Context, string) (*model.ClientView, error)
}

// Catalog returns the configured catalog or the default one.
func (s CheckoutFacadeStub) Catalog() *pricing.Catalog {
	if s.CatalogVal != nil {
		return s.CatalogVal
	}
	return pricing.Default()
}

// CreateOrder delegates to provided function or returns a fixed session.
func (s CheckoutFacadeStub) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.CheckoutSession, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, req)
	}
	return &model.CheckoutSession{
		OrderID:         1,
		ClientSecret:    "pi_1_secret",
		PaymentIntentID: "pi_1",
		Total:           decimal.NewFromInt(999),
		Currency:        "usd",
	}, nil
}

// OrderStatus returns a paid view for any intent.
func (s CheckoutFacadeStub) OrderStatus(ctx context.Context, intentID string) (*model.ClientView, error) {
	if s.OrderStatusFn != nil {
		return s.OrderStatusFn(ctx, intentID)
	}
	return &model.ClientView{
		OrderID:       1,
		ServiceType:   model.ServiceNewWebsite,
		Status:        model.OrderStatusPaid,
		Progress:      10,
		ProgressStage: model.StageDesign,
		TotalAmount:   decimal.NewFromInt(999),
		Currency:      "usd",
		HostingType:   model.HostingFilesOnly,
		HostingPrice:  decimal.Zero,
		CreatedAt:     time.Unix(0, 0).UTC(),
	}, nil
}

// WebhookFacadeStub records processed webhook payloads.
type WebhookFacadeStub struct {
	ProcessFn func(context.Context, []byte, string) error
}

// ProcessWebhook delegates to override or accepts the signature "valid".
func (s WebhookFacadeStub) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, payload, signature)
	}
	if signature != "valid" {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}

// AdminFacadeStub simulates admin panel operations.
type AdminFacadeStub struct {
	AuthenticateFn   func(context.Context, string, string) (pkgAuth.Token, error)
	ParseFn          func(string) (int64, error)
	OrdersFn         func(context.Context, model.OrderFilter) ([]model.Order, error)
	OrderFn          func(context.Context, int64) (*model.Order, error)
	UpdateProgressFn func(context.Context, int64, model.ProgressUpdate) (*model.Order, error)
}

// Authenticate returns a token for successful authentication scenarios.
func (s AdminFacadeStub) Authenticate(ctx context.Context, login, password string) (pkgAuth.Token, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return pkgAuth.Token{Value: "token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// ParseToken returns stored identifier for authenticated admin.
func (s AdminFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// Orders returns predefined orders.
func (s AdminFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return []model.Order{}, nil
}

// Order returns not found unless overridden.
func (s AdminFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProgress returns not found unless overridden.
func (s AdminFacadeStub) UpdateProgress(ctx context.Context, id int64, update model.ProgressUpdate) (*model.Order, error) {
	if s.UpdateProgressFn != nil {
		return s.UpdateProgressFn(ctx, id, update)
	}
	return nil, domainErrors.ErrNotFound
}

// HealthFacadeStub reports configured health.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StudioFacadeStub aggregates facade dependencies for HTTP layer tests.
type StudioFacadeStub struct {
	CheckoutFacadeStub
	WebhookFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

// ReconcilerFacadeStub mimics reconciler interactions with the studio facade.
type ReconcilerFacadeStub struct {
	Batches   [][]model.Order
	PendingFn func(context.Context, time.Time, int) ([]model.Order, error)
	StatusFn  func(context.Context, string) (string, error)
	ConfirmFn func(context.Context, string) (model.ConfirmationResult, error)
	RecordFn  func(context.Context, int64, time.Time) error

	mu        sync.Mutex
	calls     int
	befores   []time.Time
	confirmed []string
	checked   []int64
}

// PendingPayments returns the next configured batch.
func (s *ReconcilerFacadeStub) PendingPayments(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	s.mu.Lock()
	s.befores = append(s.befores, before)
	s.mu.Unlock()
	if s.PendingFn != nil {
		return s.PendingFn(ctx, before, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= len(s.Batches) {
		return s.Batches[s.calls-1], nil
	}
	return nil, nil
}

// PaymentIntentStatus reports succeeded unless overridden.
func (s *ReconcilerFacadeStub) PaymentIntentStatus(ctx context.Context, intentID string) (string, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, intentID)
	}
	return model.IntentStatusSucceeded, nil
}

// ConfirmPayment records confirmed intent ids.
func (s *ReconcilerFacadeStub) ConfirmPayment(ctx context.Context, intentID string) (model.ConfirmationResult, error) {
	s.mu.Lock()
	s.confirmed = append(s.confirmed, intentID)
	s.mu.Unlock()
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, intentID)
	}
	return model.ConfirmationApplied, nil
}

// RecordReconcileCheck records the order ids checked without success.
func (s *ReconcilerFacadeStub) RecordReconcileCheck(ctx context.Context, orderID int64, at time.Time) error {
	s.mu.Lock()
	s.checked = append(s.checked, orderID)
	s.mu.Unlock()
	if s.RecordFn != nil {
		return s.RecordFn(ctx, orderID, at)
	}
	return nil
}

// Checked returns a copy of the order ids recorded as checked.
func (s *ReconcilerFacadeStub) Checked() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.checked...)
}

// Confirmed returns a copy of the confirmed intent ids.
func (s *ReconcilerFacadeStub) Confirmed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.confirmed...)
}

// Befores returns the cut-off times passed to PendingPayments.
func (s *ReconcilerFacadeStub) Befores() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.befores...)
}
