package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the reconciler.
type PaymentFacade interface {
	PendingPayments(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
	PaymentIntentStatus(ctx context.Context, intentID string) (string, error)
	ConfirmPayment(ctx context.Context, intentID string) (model.ConfirmationResult, error)
	RecordReconcileCheck(ctx context.Context, orderID int64, at time.Time) error
}

// PaymentReconciler periodically re-checks pending orders at the processor
// and confirms those whose intent already succeeded. It never creates intents.
// Unsuccessful checks are recorded so each batch moves on to orders that have
// not been looked at yet.
type PaymentReconciler struct {
	facade    PaymentFacade
	interval  time.Duration
	grace     time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger
	now       func() time.Time

	jobs   chan reconcileJob
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

type reconcileJob struct {
	order model.Order
	done  chan<- struct{}
}

// NewPaymentReconciler constructs the reconciler worker pool.
func NewPaymentReconciler(facade PaymentFacade, interval, grace time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:    facade,
		interval:  interval,
		grace:     grace,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		now:       time.Now,
	}
}

// Enabled reports whether the reconciler has a positive interval.
func (r *PaymentReconciler) Enabled() bool {
	return r.interval > 0
}

// Start launches background reconciliation. It is a no-op when disabled or already running.
func (r *PaymentReconciler) Start(ctx context.Context) {
	if !r.Enabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.jobs = make(chan reconcileJob, r.batchSize)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, r.jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, r.jobs)

	r.logger.Info("payment reconciler started",
		slog.Duration("interval", r.interval),
		slog.Int("workers", r.workers),
	)
}

// Stop cancels processing and waits for all workers to finish.
func (r *PaymentReconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *PaymentReconciler) dispatch(ctx context.Context, jobs chan<- reconcileJob) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx, jobs)
		}
	}
}

// fetchAndDispatch hands one batch to the workers and waits for it to finish,
// so the next fetch already sees the checks recorded for this one.
func (r *PaymentReconciler) fetchAndDispatch(ctx context.Context, jobs chan<- reconcileJob) {
	orders, err := r.facade.PendingPayments(ctx, r.now().Add(-r.grace), r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}

	done := make(chan struct{}, len(orders))
	sent := 0
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case jobs <- reconcileJob{order: order, done: done}:
			sent++
		}
	}
	for ; sent > 0; sent-- {
		select {
		case <-ctx.Done():
			return
		case <-done:
		}
	}
}

func (r *PaymentReconciler) worker(ctx context.Context, jobs <-chan reconcileJob) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			r.reconcile(ctx, job.order)
			job.done <- struct{}{}
		}
	}
}

func (r *PaymentReconciler) reconcile(ctx context.Context, order model.Order) {
	if order.PaymentIntentID == nil {
		return
	}
	intentID := *order.PaymentIntentID

	status, err := r.facade.PaymentIntentStatus(ctx, intentID)
	if err != nil {
		r.logger.Warn("payment intent lookup failed",
			slog.Int64("order_id", order.ID),
			slog.String("payment_intent_id", intentID),
			slog.String("error", err.Error()),
		)
		r.recordCheck(ctx, order.ID)
		return
	}
	if status != model.IntentStatusSucceeded {
		r.logger.Debug("payment intent not settled",
			slog.Int64("order_id", order.ID),
			slog.String("payment_intent_id", intentID),
			slog.String("status", status),
		)
		r.recordCheck(ctx, order.ID)
		return
	}

	result, err := r.facade.ConfirmPayment(ctx, intentID)
	if err != nil {
		r.logger.Error("reconcile payment failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	r.logger.Info("payment reconciled",
		slog.Int64("order_id", order.ID),
		slog.String("payment_intent_id", intentID),
		slog.String("result", result.String()),
	)
}

func (r *PaymentReconciler) recordCheck(ctx context.Context, orderID int64) {
	if err := r.facade.RecordReconcileCheck(ctx, orderID, r.now()); err != nil {
		r.logger.Error("record reconcile check failed",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
}
