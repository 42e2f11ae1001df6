package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// UserRepositoryStub stores admin users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.AdminUser
	ByID  map[int64]*model.AdminUser
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.AdminUser),
		ByID:  make(map[int64]*model.AdminUser),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.AdminUser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.AdminUser)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.AdminUser)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.AdminUser{ID: s.Next, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.AdminUser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub keeps orders in memory and mirrors the SQL store semantics.
// Any XxxFn override replaces the in-memory behaviour for that call.
type OrderRepositoryStub struct {
	CreateFn              func(context.Context, *model.Order) (*model.Order, error)
	AttachFn              func(context.Context, int64, string) error
	GetByIDFn             func(context.Context, int64) (*model.Order, error)
	GetByPaymentIntentFn  func(context.Context, string) (*model.Order, error)
	MarkPaidFn            func(context.Context, string, int) (*model.Order, bool, error)
	ListFn                func(context.Context, model.OrderFilter) ([]model.Order, error)
	UpdateProgressFn      func(context.Context, int64, func(*model.Order) error) (*model.Order, error)
	ListAwaitingPaymentFn func(context.Context, time.Time, int) ([]model.Order, error)
	TouchReconciledFn     func(context.Context, int64, time.Time) error

	MarkPaidCalls []string
	Filters       []model.OrderFilter

	mu         sync.Mutex
	orders     map[int64]*model.Order
	reconciled map[int64]time.Time
	next       int64
}

// NewOrderRepositoryStub constructs an empty in-memory order store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[int64]*model.Order), reconciled: make(map[int64]time.Time), next: 1}
}

// Put stores a copy of order as-is, keeping its ID.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	stored := cloneOrder(&order)
	s.orders[order.ID] = stored
	if order.ID >= s.next {
		s.next = order.ID + 1
	}
}

// Snapshot returns a copy of the stored order with id.
func (s *OrderRepositoryStub) Snapshot(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *cloneOrder(o), true
}

// Count returns the number of stored orders.
func (s *OrderRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// MarkPaidCallCount returns how many times MarkPaid was invoked.
func (s *OrderRepositoryStub) MarkPaidCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.MarkPaidCalls)
}

func (s *OrderRepositoryStub) init() {
	if s.orders == nil {
		s.orders = make(map[int64]*model.Order)
	}
	if s.reconciled == nil {
		s.reconciled = make(map[int64]time.Time)
	}
	if s.next == 0 {
		s.next = 1
	}
}

// Create assigns an identifier and timestamps.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	stored := cloneOrder(order)
	stored.ID = s.next
	s.next++
	now := time.Now()
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

// AttachPaymentIntent sets the intent id once.
func (s *OrderRepositoryStub) AttachPaymentIntent(ctx context.Context, orderID int64, intentID string) error {
	if s.AttachFn != nil {
		return s.AttachFn(ctx, orderID, intentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	for _, o := range s.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == intentID {
			return domainErrors.ErrAlreadyExists
		}
	}
	o, ok := s.orders[orderID]
	if !ok || o.PaymentIntentID != nil {
		return domainErrors.ErrNotFound
	}
	id := intentID
	o.PaymentIntentID = &id
	o.UpdatedAt = time.Now()
	return nil
}

// GetByID returns a copy of the order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(o), nil
}

// GetByPaymentIntent returns a copy of the order carrying intentID.
func (s *OrderRepositoryStub) GetByPaymentIntent(ctx context.Context, intentID string) (*model.Order, error) {
	if s.GetByPaymentIntentFn != nil {
		return s.GetByPaymentIntentFn(ctx, intentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if o := s.findByIntent(intentID); o != nil {
		return cloneOrder(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

// MarkPaid performs the pending to paid transition atomically.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, intentID string, progress int) (*model.Order, bool, error) {
	s.mu.Lock()
	s.MarkPaidCalls = append(s.MarkPaidCalls, intentID)
	s.mu.Unlock()
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, intentID, progress)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	o := s.findByIntent(intentID)
	if o == nil {
		return nil, false, domainErrors.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return cloneOrder(o), false, nil
	}
	now := time.Now()
	o.Status = model.OrderStatusPaid
	o.ProgressStage = model.StageDesign
	if progress > o.Progress {
		o.Progress = progress
	}
	o.PaidAt = &now
	o.UpdatedAt = now
	return cloneOrder(o), true, nil
}

// List returns orders newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	s.Filters = append(s.Filters, filter)
	s.mu.Unlock()
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	result := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		result = append(result, *cloneOrder(o))
	}
	sortNewestFirst(result)
	return paginate(result, filter.Offset, filter.Limit), nil
}

// UpdateProgress applies fn to a copy and stores it when fn succeeds.
func (s *OrderRepositoryStub) UpdateProgress(ctx context.Context, orderID int64, apply func(*model.Order) error) (*model.Order, error) {
	if s.UpdateProgressFn != nil {
		return s.UpdateProgressFn(ctx, orderID, apply)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	working := cloneOrder(o)
	if err := apply(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	s.orders[orderID] = working
	return cloneOrder(working), nil
}

// ListAwaitingPayment mirrors the SQL ordering: never-checked orders first,
// then the oldest check, then the oldest update.
func (s *OrderRepositoryStub) ListAwaitingPayment(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	if s.ListAwaitingPaymentFn != nil {
		return s.ListAwaitingPaymentFn(ctx, before, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	result := make([]model.Order, 0)
	for _, o := range s.orders {
		if o.Status != model.OrderStatusPending || o.PaymentIntentID == nil || !o.UpdatedAt.Before(before) {
			continue
		}
		if at, ok := s.reconciled[o.ID]; ok && !at.Before(before) {
			continue
		}
		result = append(result, *cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool {
		ai, iChecked := s.reconciled[result[i].ID]
		aj, jChecked := s.reconciled[result[j].ID]
		if iChecked != jChecked {
			return !iChecked
		}
		if iChecked && !ai.Equal(aj) {
			return ai.Before(aj)
		}
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.Before(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return paginate(result, 0, limit), nil
}

// TouchReconciled records a reconcile check on a pending order.
func (s *OrderRepositoryStub) TouchReconciled(ctx context.Context, orderID int64, at time.Time) error {
	if s.TouchReconciledFn != nil {
		return s.TouchReconciledFn(ctx, orderID, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if o, ok := s.orders[orderID]; ok && o.Status == model.OrderStatusPending {
		s.reconciled[orderID] = at
	}
	return nil
}

// ReconciledAt returns the last reconcile check recorded for orderID.
func (s *OrderRepositoryStub) ReconciledAt(orderID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.reconciled[orderID]
	return at, ok
}

func (s *OrderRepositoryStub) findByIntent(intentID string) *model.Order {
	for _, o := range s.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == intentID {
			return o
		}
	}
	return nil
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	if o.Addons != nil {
		c.Addons = append([]model.Addon(nil), o.Addons...)
	}
	if o.PaymentIntentID != nil {
		id := *o.PaymentIntentID
		c.PaymentIntentID = &id
	}
	if o.PaidAt != nil {
		at := *o.PaidAt
		c.PaidAt = &at
	}
	return &c
}

func sortNewestFirst(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func paginate(orders []model.Order, offset, limit int) []model.Order {
	if offset >= len(orders) {
		return []model.Order{}
	}
	orders = orders[offset:]
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return orders
}
