package app

import (
	"context"
	"time"

	"github.com/polkiloo/studiodesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
	"github.com/polkiloo/studiodesk/internal/pricing"
	"github.com/polkiloo/studiodesk/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StudioFacade is the single entry point used by transport and background workers.
type StudioFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	webhooks *usecase.WebhookUseCase
	health   HealthChecker
}

func NewStudioFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, webhooks *usecase.WebhookUseCase, health HealthChecker) *StudioFacade {
	return &StudioFacade{auth: auth, orders: orders, webhooks: webhooks, health: health}
}

func (f *StudioFacade) Catalog() *pricing.Catalog {
	return f.orders.Catalog()
}

func (f *StudioFacade) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.CheckoutSession, error) {
	return f.orders.CreateOrder(ctx, req)
}

func (f *StudioFacade) OrderStatus(ctx context.Context, intentID string) (*model.ClientView, error) {
	return f.orders.ClientView(ctx, intentID)
}

func (f *StudioFacade) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	return f.webhooks.Process(ctx, payload, signature)
}

func (f *StudioFacade) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	return f.auth.EnsureAdmin(ctx, login, password)
}

func (f *StudioFacade) Authenticate(ctx context.Context, login, password string) (pkgAuth.Token, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StudioFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StudioFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.Orders(ctx, filter)
}

func (f *StudioFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Order(ctx, id)
}

func (f *StudioFacade) UpdateProgress(ctx context.Context, id int64, update model.ProgressUpdate) (*model.Order, error) {
	return f.orders.UpdateProgress(ctx, id, update)
}

func (f *StudioFacade) PendingPayments(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	return f.orders.PendingPayments(ctx, before, limit)
}

func (f *StudioFacade) PaymentIntentStatus(ctx context.Context, intentID string) (string, error) {
	return f.orders.PaymentIntentStatus(ctx, intentID)
}

func (f *StudioFacade) RecordReconcileCheck(ctx context.Context, orderID int64, at time.Time) error {
	return f.orders.RecordReconcileCheck(ctx, orderID, at)
}

func (f *StudioFacade) ConfirmPayment(ctx context.Context, intentID string) (model.ConfirmationResult, error) {
	return f.orders.HandlePaymentConfirmation(ctx, intentID)
}

func (f *StudioFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
