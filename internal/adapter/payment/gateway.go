package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// SignatureTolerance is the maximum accepted age of a signed webhook.
const SignatureTolerance = 5 * time.Minute

// Gateway exposes operations against the payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*model.PaymentIntent, error)
	VerifyWebhook(payload []byte, signature string) (*model.PaymentEvent, error)
}

// GatewayError describes a failed processor call.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("payment processor: %s", e.Message)
	}
	return fmt.Sprintf("payment processor (%d): %s", e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Is makes every GatewayError match ErrUpstream.
func (e *GatewayError) Is(target error) bool {
	return target == domainErrors.ErrUpstream
}

// Options configures a StripeGateway.
type Options struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string
	Timeout       time.Duration
	MaxRetries    int
}

// StripeGateway implements Gateway on top of the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	logger        *slog.Logger
}

// NewStripeGateway creates a Stripe backed gateway with its own backend configuration.
func NewStripeGateway(opts Options, logger *slog.Logger) (*StripeGateway, error) {
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key must be provided")
	}
	if opts.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret must be provided")
	}

	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: opts.Timeout},
		MaxNetworkRetries: stripe.Int64(int64(opts.MaxRetries)),
		LeveledLogger:     &leveledLogger{logger: logger},
		EnableTelemetry:   stripe.Bool(false),
	}
	if opts.APIURL != "" {
		cfg.URL = stripe.String(strings.TrimRight(opts.APIURL, "/"))
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}

	return &StripeGateway{
		api:           client.New(opts.SecretKey, backends),
		webhookSecret: opts.WebhookSecret,
		logger:        logger,
	}, nil
}

// CreateIntent requests a new payment intent for the amount in the smallest currency unit.
func (g *StripeGateway) CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domainErrors.ErrValidation)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(model.ToMinorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	return toIntent(pi), nil
}

// RetrieveIntent fetches the current state of an intent.
func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return toIntent(pi), nil
}

// VerifyWebhook authenticates payload against the signing secret and decodes the event.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*model.PaymentEvent, error) {
	if err := webhook.ValidatePayloadWithTolerance(payload, signature, g.webhookSecret, SignatureTolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
	}
	return decodeEvent(payload)
}

func decodeEvent(payload []byte) (*model.PaymentEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrMalformedEvent, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: missing event id or type", domainErrors.ErrMalformedEvent)
	}

	result := &model.PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(result.Type, "payment_intent.") {
		return result, nil
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: missing event object", domainErrors.ErrMalformedEvent)
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrMalformedEvent, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", domainErrors.ErrMalformedEvent)
	}
	result.PaymentIntentID = pi.ID
	return result, nil
}

func toIntent(pi *stripe.PaymentIntent) *model.PaymentIntent {
	return &model.PaymentIntent{
		ExternalID:   pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}
}

func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := strings.TrimSpace(stripeErr.Msg)
		if msg == "" {
			msg = http.StatusText(stripeErr.HTTPStatusCode)
		}
		return &GatewayError{StatusCode: stripeErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return &GatewayError{Message: "request failed", Err: err}
}

type leveledLogger struct {
	logger *slog.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}
