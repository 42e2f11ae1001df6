package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/polkiloo/studiodesk/internal/adapter/payment"
	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/domain/repository"
	"github.com/polkiloo/studiodesk/internal/pricing"
)

const (
	// MaxProjectDetailsLength bounds the free-form project description.
	MaxProjectDetailsLength = 5000

	defaultListLimit = 50
	maxListLimit     = 200
)

// OrderUseCase drives orders from checkout through payment to delivery.
type OrderUseCase struct {
	orders   repository.OrderRepository
	pricing  *pricing.Calculator
	payments payment.Gateway
	validate *validator.Validate
	logger   *slog.Logger
	// keyNonce scopes idempotency keys to this process so a reused order id
	// never replays an intent created for an earlier database.
	keyNonce string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, calculator *pricing.Calculator, payments payment.Gateway, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		pricing:  calculator,
		payments: payments,
		validate: validator.New(),
		logger:   logger,
		keyNonce: uuid.NewString(),
	}
}

// Catalog exposes the price table used for quoting.
func (u *OrderUseCase) Catalog() *pricing.Catalog {
	return u.pricing.Catalog()
}

// CreateOrder prices the request, stores a pending order and opens a payment intent for it.
// When the processor fails the order stays pending without an intent and ErrUpstream is returned.
func (u *OrderUseCase) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.CheckoutSession, error) {
	email := strings.TrimSpace(req.Email)
	if err := u.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domainErrors.ErrValidation)
	}
	if utf8.RuneCountInString(req.ProjectDetails) > MaxProjectDetailsLength {
		return nil, fmt.Errorf("%w: project details exceed %d characters", domainErrors.ErrValidation, MaxProjectDetailsLength)
	}

	quote, err := u.pricing.Quote(pricing.Selection{
		ServiceType: req.ServiceType,
		AddonIDs:    req.Addons,
		HostingType: req.HostingType,
	})
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerEmail:  email,
		ServiceType:    quote.ServiceType,
		BasePrice:      quote.BasePrice,
		Addons:         quote.Addons,
		HostingType:    quote.HostingType,
		HostingPrice:   quote.HostingPrice,
		TotalAmount:    quote.Total,
		Currency:       quote.Currency,
		Status:         model.OrderStatusPending,
		Progress:       0,
		ProgressStage:  model.StagePlanning,
		ProjectDetails: req.ProjectDetails,
	}
	if !order.ComponentsTotal().Equal(order.TotalAmount) {
		return nil, fmt.Errorf("order total %s does not match its components", order.TotalAmount)
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	orderID := strconv.FormatInt(created.ID, 10)
	intent, err := u.payments.CreateIntent(ctx, model.IntentRequest{
		Amount:   created.TotalAmount,
		Currency: created.Currency,
		Metadata: map[string]string{
			"order_id":       orderID,
			"service_type":   string(created.ServiceType),
			"hosting_type":   string(created.HostingType),
			"customer_email": created.CustomerEmail,
		},
		IdempotencyKey: u.idempotencyKey(orderID),
	})
	if err != nil {
		u.logger.Error("create payment intent failed",
			slog.Int64("order_id", created.ID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domainErrors.ErrUpstream) {
			return nil, fmt.Errorf("create payment intent for order %d: %w", created.ID, err)
		}
		return nil, fmt.Errorf("%w: create payment intent for order %d: %v", domainErrors.ErrUpstream, created.ID, err)
	}

	if err := u.orders.AttachPaymentIntent(ctx, created.ID, intent.ExternalID); err != nil {
		return nil, fmt.Errorf("attach payment intent to order %d: %w", created.ID, err)
	}

	u.logger.Info("order created",
		slog.Int64("order_id", created.ID),
		slog.String("payment_intent_id", intent.ExternalID),
		slog.String("total", created.TotalAmount.StringFixed(2)),
	)

	return &model.CheckoutSession{
		OrderID:         created.ID,
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ExternalID,
		Total:           created.TotalAmount,
		Currency:        created.Currency,
	}, nil
}

// HandlePaymentConfirmation marks the order carrying intentID as paid.
// Repeated confirmations are reported as duplicates and unknown intents as unmatched; neither is an error.
func (u *OrderUseCase) HandlePaymentConfirmation(ctx context.Context, intentID string) (model.ConfirmationResult, error) {
	if intentID == "" {
		return model.ConfirmationUnmatched, fmt.Errorf("%w: empty payment intent id", domainErrors.ErrValidation)
	}

	order, applied, err := u.orders.MarkPaid(ctx, intentID, model.InitialPaidProgress)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("payment confirmation for unknown intent", slog.String("payment_intent_id", intentID))
			return model.ConfirmationUnmatched, nil
		}
		return model.ConfirmationUnmatched, err
	}

	if !applied {
		u.logger.Debug("duplicate payment confirmation",
			slog.Int64("order_id", order.ID),
			slog.String("status", string(order.Status)),
		)
		return model.ConfirmationDuplicate, nil
	}

	u.logger.Info("order paid",
		slog.Int64("order_id", order.ID),
		slog.String("payment_intent_id", intentID),
	)
	return model.ConfirmationApplied, nil
}

// ClientView returns the customer-facing projection of the order paid through intentID.
func (u *OrderUseCase) ClientView(ctx context.Context, intentID string) (*model.ClientView, error) {
	if intentID == "" {
		return nil, domainErrors.ErrNotFound
	}
	order, err := u.orders.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	view := order.ClientView()
	return &view, nil
}

// Orders lists orders for the admin panel, newest first.
func (u *OrderUseCase) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, *filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return u.orders.List(ctx, filter)
}

// Order returns a single order with all administrative fields.
func (u *OrderUseCase) Order(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// UpdateProgress applies an administrative change under a row lock.
func (u *OrderUseCase) UpdateProgress(ctx context.Context, id int64, update model.ProgressUpdate) (*model.Order, error) {
	order, err := u.orders.UpdateProgress(ctx, id, func(o *model.Order) error {
		return o.ApplyProgress(update)
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("order progress updated",
		slog.Int64("order_id", order.ID),
		slog.String("status", string(order.Status)),
		slog.String("stage", string(order.ProgressStage)),
		slog.Int("progress", order.Progress),
	)
	return order, nil
}

// PendingPayments returns pending orders with an intent untouched since before.
func (u *OrderUseCase) PendingPayments(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	return u.orders.ListAwaitingPayment(ctx, before, limit)
}

// RecordReconcileCheck notes that the intent of a pending order was checked at
// the processor without success, so the next batch moves on to other orders.
func (u *OrderUseCase) RecordReconcileCheck(ctx context.Context, orderID int64, at time.Time) error {
	return u.orders.TouchReconciled(ctx, orderID, at)
}

// PaymentIntentStatus asks the processor for the current status of an intent.
func (u *OrderUseCase) PaymentIntentStatus(ctx context.Context, intentID string) (string, error) {
	intent, err := u.payments.RetrieveIntent(ctx, intentID)
	if err != nil {
		return "", err
	}
	return intent.Status, nil
}

func (u *OrderUseCase) idempotencyKey(orderID string) string {
	return "order-" + orderID + "-" + u.keyNonce
}
