package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/pricing"
	testhelpers "github.com/polkiloo/studiodesk/internal/test"
	"github.com/polkiloo/studiodesk/internal/usecase"
)

type healthStub struct {
	err error
}

func (h healthStub) HealthCheck(context.Context) error { return h.err }

func newFacade() (*StudioFacade, *testhelpers.UserRepositoryStub, *testhelpers.OrderRepositoryStub, *testhelpers.GatewayStub) {
	logger := testhelpers.DiscardLogger()
	userRepo := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(userRepo, testhelpers.HasherStub{}, strategy)

	orderRepo := testhelpers.NewOrderRepositoryStub()
	gateway := &testhelpers.GatewayStub{}
	orderUC := usecase.NewOrderUseCase(orderRepo, pricing.NewCalculator(pricing.Default()), gateway, logger)
	webhookUC := usecase.NewWebhookUseCase(gateway, orderUC, logger)

	facade := NewStudioFacade(authUC, orderUC, webhookUC, healthStub{})
	return facade, userRepo, orderRepo, gateway
}

func TestStudioFacadeAuth(t *testing.T) {
	facade, users, _, _ := newFacade()
	ctx := context.Background()

	created, err := facade.EnsureAdmin(ctx, "admin", "pass")
	if err != nil || !created {
		t.Fatalf("ensure admin returned %v %v", created, err)
	}
	if _, err := users.GetByLogin(ctx, "admin"); err != nil {
		t.Fatalf("admin not stored: %v", err)
	}

	token, err := facade.Authenticate(ctx, "admin", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token.Value != "token" {
		t.Fatalf("unexpected token %q", token.Value)
	}

	if _, err := facade.Authenticate(ctx, "admin", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	id, err := facade.ParseToken("anything")
	if err != nil || id != 99 {
		t.Fatalf("unexpected parse result %d %v", id, err)
	}
}

func TestStudioFacadeCheckoutAndWebhook(t *testing.T) {
	facade, _, orders, gateway := newFacade()
	ctx := context.Background()

	if facade.Catalog().Currency() != "usd" {
		t.Fatalf("unexpected catalog currency")
	}

	session, err := facade.CreateOrder(ctx, model.OrderRequest{
		ServiceType: model.ServiceRedesign,
		Addons:      []string{"blog"},
		HostingType: model.HostingFilesOnly,
		Email:       "client@example.com",
	})
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if session.Total.String() != "1048" {
		t.Fatalf("expected total 1048, got %s", session.Total)
	}
	if gateway.RequestCount() != 1 {
		t.Fatalf("expected one intent request")
	}

	view, err := facade.OrderStatus(ctx, session.PaymentIntentID)
	if err != nil || view.Status != model.OrderStatusPending {
		t.Fatalf("unexpected view %+v %v", view, err)
	}

	if err := facade.ProcessWebhook(ctx, []byte(session.PaymentIntentID), "forged"); !errors.Is(err, domainErrors.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
	if err := facade.ProcessWebhook(ctx, []byte(session.PaymentIntentID), "valid"); err != nil {
		t.Fatalf("process webhook returned error: %v", err)
	}

	stored, _ := orders.Snapshot(session.OrderID)
	if stored.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", stored.Status)
	}
}

func TestStudioFacadeAdminOrders(t *testing.T) {
	facade, _, orders, _ := newFacade()
	ctx := context.Background()
	intent := "pi_admin"
	orders.Put(model.Order{
		ID:              4,
		PaymentIntentID: &intent,
		Status:          model.OrderStatusPaid,
		ProgressStage:   model.StageDesign,
		Progress:        10,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	})

	list, err := facade.Orders(ctx, model.OrderFilter{})
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list %+v %v", list, err)
	}

	order, err := facade.Order(ctx, 4)
	if err != nil || order.ID != 4 {
		t.Fatalf("unexpected order %+v %v", order, err)
	}

	progress := 30
	stage := model.StageDevelopment
	updated, err := facade.UpdateProgress(ctx, 4, model.ProgressUpdate{Progress: &progress, Stage: &stage})
	if err != nil || updated.Progress != 30 || updated.ProgressStage != stage {
		t.Fatalf("unexpected update %+v %v", updated, err)
	}
}

func TestStudioFacadeReconciliation(t *testing.T) {
	facade, _, orders, _ := newFacade()
	ctx := context.Background()
	intent := "pi_late"
	orders.Put(model.Order{
		ID:              2,
		PaymentIntentID: &intent,
		Status:          model.OrderStatusPending,
		ProgressStage:   model.StagePlanning,
		CreatedAt:       time.Now().Add(-time.Hour),
		UpdatedAt:       time.Now().Add(-time.Hour),
	})

	pending, err := facade.PendingPayments(ctx, time.Now().Add(-time.Minute), 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("unexpected pending %+v %v", pending, err)
	}

	checkedAt := time.Now()
	if err := facade.RecordReconcileCheck(ctx, 2, checkedAt); err != nil {
		t.Fatalf("record check: %v", err)
	}
	if at, ok := orders.ReconciledAt(2); !ok || !at.Equal(checkedAt) {
		t.Fatalf("expected reconcile check to be stored, got %v %v", at, ok)
	}
	if again, _ := facade.PendingPayments(ctx, checkedAt.Add(-time.Minute), 10); len(again) != 0 {
		t.Fatalf("recently checked order must wait for the grace window, got %+v", again)
	}

	status, err := facade.PaymentIntentStatus(ctx, intent)
	if err != nil || status != model.IntentStatusSucceeded {
		t.Fatalf("unexpected status %q %v", status, err)
	}

	result, err := facade.ConfirmPayment(ctx, intent)
	if err != nil || result != model.ConfirmationApplied {
		t.Fatalf("unexpected confirmation %v %v", result, err)
	}
}

func TestStudioFacadeHealthCheck(t *testing.T) {
	facade, _, _, _ := newFacade()
	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}

	facade.health = healthStub{err: errors.New("ping failed")}
	if err := facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}
