package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/studiodesk/internal/config"
)

// Module exposes the payment gateway implementation to fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	return NewStripeGateway(Options{
		SecretKey:     p.Config.StripeSecretKey,
		WebhookSecret: p.Config.StripeWebhookSecret,
		APIURL:        p.Config.PaymentAPIURL,
		Timeout:       p.Config.PaymentTimeout,
		MaxRetries:    p.Config.PaymentMaxRetries,
	}, p.Logger)
}
