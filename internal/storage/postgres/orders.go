package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

const orderColumns = `id, customer_email, service_type, base_price_cents, addons, hosting_type, hosting_price_cents,
    total_amount_cents, currency, payment_intent_id, status, progress, progress_stage,
    project_details, client_notes, internal_notes, paid_at, created_at, updated_at`

type addonRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeAddons(addons []model.Addon) ([]byte, error) {
	records := make([]addonRecord, 0, len(addons))
	for _, a := range addons {
		records = append(records, addonRecord{ID: a.ID, Name: a.Name, PriceCents: model.ToMinorUnits(a.Price)})
	}
	return json.Marshal(records)
}

func decodeAddons(raw []byte) ([]model.Addon, error) {
	if len(raw) == 0 {
		return []model.Addon{}, nil
	}
	var records []addonRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode addons: %w", err)
	}
	addons := make([]model.Addon, 0, len(records))
	for _, r := range records {
		addons = append(addons, model.Addon{ID: r.ID, Name: r.Name, Price: model.FromMinorUnits(r.PriceCents)})
	}
	return addons, nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o                                   model.Order
		baseCents, hostingCents, totalCents int64
		addonsRaw                           []byte
	)
	err := row.Scan(
		&o.ID, &o.CustomerEmail, &o.ServiceType, &baseCents, &addonsRaw, &o.HostingType, &hostingCents,
		&totalCents, &o.Currency, &o.PaymentIntentID, &o.Status, &o.Progress, &o.ProgressStage,
		&o.ProjectDetails, &o.ClientNotes, &o.InternalNotes, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	addons, err := decodeAddons(addonsRaw)
	if err != nil {
		return nil, err
	}
	o.Addons = addons
	o.BasePrice = model.FromMinorUnits(baseCents)
	o.HostingPrice = model.FromMinorUnits(hostingCents)
	o.TotalAmount = model.FromMinorUnits(totalCents)
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (customer_email, service_type, base_price_cents, addons, hosting_type,
                       hosting_price_cents, total_amount_cents, currency, status, progress, progress_stage, project_details)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id, created_at, updated_at`

	addons, err := encodeAddons(order.Addons)
	if err != nil {
		return nil, err
	}

	created := *order
	err = r.storage.pool.QueryRow(ctx, query,
		order.CustomerEmail,
		order.ServiceType,
		model.ToMinorUnits(order.BasePrice),
		addons,
		order.HostingType,
		model.ToMinorUnits(order.HostingPrice),
		model.ToMinorUnits(order.TotalAmount),
		order.Currency,
		order.Status,
		order.Progress,
		order.ProgressStage,
		order.ProjectDetails,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) AttachPaymentIntent(ctx context.Context, orderID int64, intentID string) error {
	const query = `UPDATE orders SET payment_intent_id=$1, updated_at=NOW() WHERE id=$2 AND payment_intent_id IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, intentID, orderID)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d without payment intent", domainErrors.ErrNotFound, orderID)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) GetByPaymentIntent(ctx context.Context, intentID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_intent_id=$1`
	return r.getOne(ctx, query, intentID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, intentID string, progress int) (*model.Order, bool, error) {
	query := `UPDATE orders
              SET status=$2, progress_stage=$3, progress=GREATEST(progress, $4), paid_at=NOW(), updated_at=NOW()
              WHERE payment_intent_id=$1 AND status=$5
              RETURNING ` + orderColumns

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		intentID, model.OrderStatusPaid, model.StageDesign, progress, model.OrderStatusPending))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders`)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		sb.WriteString(` WHERE status=$1`)
	}
	sb.WriteString(` ORDER BY created_at DESC, id DESC`)
	args = append(args, filter.Limit)
	sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	return r.query(ctx, sb.String(), args...)
}

func (r *orderRepository) ListAwaitingPayment(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status=$1 AND payment_intent_id IS NOT NULL AND updated_at < $2
                AND (reconciled_at IS NULL OR reconciled_at < $2)
              ORDER BY reconciled_at NULLS FIRST, updated_at, id
              LIMIT $3`
	return r.query(ctx, query, model.OrderStatusPending, before, limit)
}

// TouchReconciled records an unsuccessful processor check. Orders that left
// pending in the meantime are left alone.
func (r *orderRepository) TouchReconciled(ctx context.Context, orderID int64, at time.Time) error {
	const query = `UPDATE orders SET reconciled_at=$1 WHERE id=$2 AND status=$3`
	_, err := r.storage.pool.Exec(ctx, query, at, orderID, model.OrderStatusPending)
	return err
}

func (r *orderRepository) query(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateProgress(ctx context.Context, orderID int64, apply func(*model.Order) error) (*model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
	const updateQuery = `UPDATE orders
                         SET status=$1, progress=$2, progress_stage=$3, client_notes=$4, internal_notes=$5, updated_at=NOW()
                         WHERE id=$6
                         RETURNING updated_at`

	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, selectQuery, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		err = tx.QueryRow(ctx, updateQuery,
			order.Status, order.Progress, order.ProgressStage, order.ClientNotes, order.InternalNotes, orderID,
		).Scan(&order.UpdatedAt)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
