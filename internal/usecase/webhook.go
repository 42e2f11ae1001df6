package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/polkiloo/studiodesk/internal/adapter/payment"
	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// WebhookUseCase authenticates processor notifications and routes them.
type WebhookUseCase struct {
	payments payment.Gateway
	orders   *OrderUseCase
	logger   *slog.Logger
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(payments payment.Gateway, orders *OrderUseCase, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{payments: payments, orders: orders, logger: logger}
}

// Process verifies the payload signature and confirms payment for succeeded intents.
// Other event types are acknowledged without side effects.
func (u *WebhookUseCase) Process(ctx context.Context, payload []byte, signature string) error {
	event, err := u.payments.VerifyWebhook(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			u.logger.Warn("webhook signature rejected",
				slog.String("event", "security"),
				slog.Int("payload_bytes", len(payload)),
				slog.String("error", err.Error()),
			)
		case errors.Is(err, domainErrors.ErrMalformedEvent):
			u.logger.Warn("malformed webhook event", slog.String("error", err.Error()))
		}
		return err
	}

	if event.Type != model.EventPaymentSucceeded {
		u.logger.Debug("webhook event ignored",
			slog.String("event_id", event.ID),
			slog.String("type", event.Type),
		)
		return nil
	}

	result, err := u.orders.HandlePaymentConfirmation(ctx, event.PaymentIntentID)
	if err != nil {
		u.logger.Error("payment confirmation failed",
			slog.String("event_id", event.ID),
			slog.String("payment_intent_id", event.PaymentIntentID),
			slog.String("error", err.Error()),
		)
		return err
	}

	u.logger.Info("webhook processed",
		slog.String("event_id", event.ID),
		slog.String("payment_intent_id", event.PaymentIntentID),
		slog.String("result", result.String()),
	)
	return nil
}
