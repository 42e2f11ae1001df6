package handlers

import (
	"context"

	"github.com/polkiloo/studiodesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
	"github.com/polkiloo/studiodesk/internal/pricing"
)

// CheckoutFacade covers the public quote and checkout flow.
type CheckoutFacade interface {
	Catalog() *pricing.Catalog
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.CheckoutSession, error)
	OrderStatus(ctx context.Context, intentID string) (*model.ClientView, error)
}

// WebhookFacade processes signed processor notifications.
type WebhookFacade interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) error
}

// AdminFacade describes the operations behind the admin panel.
type AdminFacade interface {
	Authenticate(ctx context.Context, login, password string) (pkgAuth.Token, error)
	ParseToken(token string) (int64, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	UpdateProgress(ctx context.Context, id int64, update model.ProgressUpdate) (*model.Order, error)
}

// HealthFacade reports service readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StudioFacade aggregates the full set of operations used across handlers.
type StudioFacade interface {
	CheckoutFacade
	WebhookFacade
	AdminFacade
	HealthFacade
}
