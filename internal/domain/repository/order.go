package repository

import (
	"context"
	"time"

	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	AttachPaymentIntent(ctx context.Context, orderID int64, intentID string) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*model.Order, error)
	// MarkPaid moves a pending order to paid. The bool reports whether this call performed the transition.
	MarkPaid(ctx context.Context, intentID string, progress int) (*model.Order, bool, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateProgress(ctx context.Context, orderID int64, apply func(*model.Order) error) (*model.Order, error)
	// ListAwaitingPayment returns pending orders with an intent that were neither
	// updated nor checked by the reconciler since before, never-checked orders first.
	ListAwaitingPayment(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
	// TouchReconciled records an unsuccessful processor check on a pending order.
	TouchReconciled(ctx context.Context, orderID int64, at time.Time) error
}
