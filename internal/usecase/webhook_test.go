package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/pricing"
	testhelpers "github.com/polkiloo/studiodesk/internal/test"
)

func TestWebhookUseCaseConfirmsPayment(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	gw := &testhelpers.GatewayStub{}
	orders := newOrderUseCase(repo, gw)
	uc := NewWebhookUseCase(gw, orders, testhelpers.DiscardLogger())
	ctx := context.Background()

	session, err := orders.CreateOrder(ctx, scenarioARequest())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := uc.Process(ctx, []byte(session.PaymentIntentID), "valid"); err != nil {
			t.Fatalf("process returned error: %v", err)
		}
	}

	stored, _ := repo.Snapshot(session.OrderID)
	if stored.Status != model.OrderStatusPaid || stored.ProgressStage != model.StageDesign || stored.Progress != 10 {
		t.Fatalf("unexpected order state %s/%s/%d", stored.Status, stored.ProgressStage, stored.Progress)
	}
	if repo.MarkPaidCallCount() != 2 {
		t.Fatalf("expected both deliveries to reach the store, got %d", repo.MarkPaidCallCount())
	}
}

func TestWebhookUseCaseRejectsInvalidSignature(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	gw := &testhelpers.GatewayStub{}
	logs := &testhelpers.LogBuffer{}
	orders := NewOrderUseCase(repo, pricing.NewCalculator(pricing.Default()), gw, logs.Logger())
	uc := NewWebhookUseCase(gw, orders, logs.Logger())

	intent := "pi_1"
	repo.Put(model.Order{
		ID:              1,
		PaymentIntentID: &intent,
		Status:          model.OrderStatusPending,
		ProgressStage:   model.StagePlanning,
	})

	err := uc.Process(context.Background(), []byte(intent), "forged")
	if !errors.Is(err, domainErrors.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
	if repo.MarkPaidCallCount() != 0 {
		t.Fatal("order store must not be touched for an unverified payload")
	}
	stored, _ := repo.Snapshot(1)
	if stored.Status != model.OrderStatusPending || stored.ProgressStage != model.StagePlanning || stored.Progress != 0 || stored.PaidAt != nil {
		t.Fatalf("forged delivery changed order: %s/%s/%d", stored.Status, stored.ProgressStage, stored.Progress)
	}
	out := logs.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, "webhook signature rejected") {
		t.Fatalf("expected security warning, got %s", out)
	}
}

func TestWebhookUseCaseMalformedEvent(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	gw := &testhelpers.GatewayStub{VerifyFn: func([]byte, string) (*model.PaymentEvent, error) {
		return nil, domainErrors.ErrMalformedEvent
	}}
	uc := NewWebhookUseCase(gw, newOrderUseCase(repo, gw), testhelpers.DiscardLogger())

	if err := uc.Process(context.Background(), []byte("{"), "valid"); !errors.Is(err, domainErrors.ErrMalformedEvent) {
		t.Fatalf("expected malformed event, got %v", err)
	}
	if repo.MarkPaidCallCount() != 0 {
		t.Fatal("order store must not be touched for a malformed event")
	}
}

func TestWebhookUseCaseIgnoresOtherEvents(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	gw := &testhelpers.GatewayStub{VerifyFn: func([]byte, string) (*model.PaymentEvent, error) {
		return &model.PaymentEvent{ID: "evt_1", Type: "payment_intent.payment_failed", PaymentIntentID: "pi_1"}, nil
	}}
	uc := NewWebhookUseCase(gw, newOrderUseCase(repo, gw), testhelpers.DiscardLogger())

	if err := uc.Process(context.Background(), []byte("{}"), "valid"); err != nil {
		t.Fatalf("expected event to be acknowledged, got %v", err)
	}
	if repo.MarkPaidCallCount() != 0 {
		t.Fatal("non-success events must not confirm payment")
	}
}

func TestWebhookUseCaseUnmatchedIntentIsAcknowledged(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	gw := &testhelpers.GatewayStub{}
	uc := NewWebhookUseCase(gw, newOrderUseCase(repo, gw), testhelpers.DiscardLogger())

	if err := uc.Process(context.Background(), []byte("pi_nobody"), "valid"); err != nil {
		t.Fatalf("expected unmatched event to be acknowledged, got %v", err)
	}
}

func TestWebhookUseCaseStoreFailure(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	repo.MarkPaidFn = func(context.Context, string, int) (*model.Order, bool, error) {
		return nil, false, errors.New("db down")
	}
	gw := &testhelpers.GatewayStub{}
	uc := NewWebhookUseCase(gw, newOrderUseCase(repo, gw), testhelpers.DiscardLogger())

	if err := uc.Process(context.Background(), []byte("pi_1"), "valid"); err == nil {
		t.Fatal("expected store failure to be returned so the processor retries")
	}
}
