package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, client_id, client_name, total, status, payment_status, amount_paid, payment_due_date, created_at, confirmed_at, completed_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ClientID, &o.ClientName, &o.Total, &o.Status, &o.PaymentStatus,
		&o.AmountPaid, &o.PaymentDueDate, &o.CreatedAt, &o.ConfirmedAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

// Create prices the items from the products table inside the transaction and
// inserts the order with its lines.
func (r *Repo) Create(ctx context.Context, clientID, clientName string, dueDate *time.Time, inputs []ItemInput) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	rows, err := tx.Query(ctx, `SELECT id, name, price FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return Order{}, errors.Wrap(err, "load product prices")
	}
	priced := map[string]PricedProduct{}
	for rows.Next() {
		var p PricedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			rows.Close()
			return Order{}, err
		}
		priced[p.ID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}

	lines, total, err := BuildLines(priced, inputs)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:             uuid.NewString(),
		ClientID:       clientID,
		ClientName:     clientName,
		Items:          lines,
		Total:          total,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		AmountPaid:     decimal.Zero,
		PaymentDueDate: dueDate,
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, client_id, client_name, total, status, payment_status, amount_paid, payment_due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		o.ID, o.ClientID, o.ClientName, o.Total, o.Status, o.PaymentStatus, o.AmountPaid, o.PaymentDueDate)
	if err := row.Scan(&o.CreatedAt); err != nil {
		return Order{}, errors.Wrap(err, "insert order")
	}
	for _, it := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, qty, price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.ProductID, it.ProductName, it.Qty, it.Price, it.Subtotal); err != nil {
			return Order{}, errors.Wrap(err, "insert order item")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Confirm checks stock for every line and decrements it in one transaction.
// Any shortage rolls the whole thing back and reports all short lines.
func (r *Repo) Confirm(ctx context.Context, orderID string) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	o, err := r.lockOrder(ctx, tx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, StatusConfirmed) {
		return Order{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, StatusConfirmed)
	}

	var short []ShortItem
	for _, it := range o.Items {
		stock, err := catalog.LockStockTx(ctx, tx, it.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				short = append(short, ShortItem{ProductID: it.ProductID, ProductName: it.ProductName, Requested: it.Qty})
				continue
			}
			return Order{}, err
		}
		if stock < it.Qty {
			short = append(short, ShortItem{ProductID: it.ProductID, ProductName: it.ProductName, Requested: it.Qty, Available: stock})
			continue
		}
		if _, err := catalog.ApplyDeltaTx(ctx, tx, it.ProductID, -it.Qty, catalog.ReasonOrderConfirm, &o.ID); err != nil {
			return Order{}, err
		}
	}
	if len(short) > 0 {
		// rollback via defer: no partial confirmation
		return Order{}, &InsufficientStockError{OrderID: o.ID, Items: short}
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, confirmed_at=$3 WHERE id=$1`,
		o.ID, StatusConfirmed, now); err != nil {
		return Order{}, errors.Wrap(err, "update order status")
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	return o, nil
}

// Cancel moves the order to cancelled. A confirmed order returns its stock;
// a pending one never took any.
func (r *Repo) Cancel(ctx context.Context, orderID string) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	o, err := r.lockOrder(ctx, tx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return Order{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, StatusCancelled)
	}

	if o.Status == StatusConfirmed {
		for _, it := range o.Items {
			if _, err := catalog.ApplyDeltaTx(ctx, tx, it.ProductID, it.Qty, catalog.ReasonOrderCancel, &o.ID); err != nil {
				return Order{}, err
			}
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, o.ID, StatusCancelled); err != nil {
		return Order{}, errors.Wrap(err, "update order status")
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	o.Status = StatusCancelled
	return o, nil
}

func (r *Repo) Complete(ctx context.Context, orderID string) (Order, error) {
	now := time.Now().UTC()
	row := r.DB.QueryRow(ctx, `
		UPDATE orders SET status=$2, completed_at=$3
		WHERE id=$1 AND status=$4
		RETURNING `+orderCols,
		orderID, StatusCompleted, now, StatusConfirmed)
	o, err := scanOrder(row)
	if errors.Is(err, ErrNotFound) {
		// missing row or wrong state; look again to say which
		cur, gerr := r.Get(ctx, orderID)
		if gerr != nil {
			return Order{}, gerr
		}
		return Order{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", cur.Status, StatusCompleted)
	}
	return o, err
}

// ApplyPayment credits amountPaid and recomputes the payment status in one
// transaction. The caller has already validated the amount is positive.
func (r *Repo) ApplyPayment(ctx context.Context, orderID string, amount decimal.Decimal) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	o, err := ApplyPaymentTx(ctx, tx, orderID, amount)
	if err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ApplyPaymentTx is shared with payment reconciliation so confirming a payment
// and crediting the order commit together.
func ApplyPaymentTx(ctx context.Context, tx pgx.Tx, orderID string, amount decimal.Decimal) (Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1 FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}
	if o.Status == StatusCancelled {
		return Order{}, ErrOrderCancelled
	}
	if amount.GreaterThan(o.Outstanding()) {
		return Order{}, ErrExceedsBalance
	}

	o.AmountPaid = o.AmountPaid.Add(amount)
	o.PaymentStatus = PaymentStatusFor(o.AmountPaid, o.Total)
	if _, err := tx.Exec(ctx, `UPDATE orders SET amount_paid=$2, payment_status=$3 WHERE id=$1`,
		o.ID, o.AmountPaid, o.PaymentStatus); err != nil {
		return Order{}, errors.Wrap(err, "credit order")
	}
	return o, nil
}

func (r *Repo) lockOrder(ctx context.Context, tx pgx.Tx, orderID string) (Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1 FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}
	o.Items, err = loadItems(ctx, tx, orderID)
	return o, err
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, orderID))
	if err != nil {
		return Order{}, err
	}
	o.Items, err = loadItems(ctx, r.DB, orderID)
	return o, err
}

func (r *Repo) ListByClient(ctx context.Context, clientID string) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderCols+` FROM orders WHERE client_id=$1 ORDER BY created_at DESC`, clientID)
}

func (r *Repo) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderCols+` FROM orders WHERE status=$1 ORDER BY created_at`, status)
}

// ListUnpaid feeds the debt aggregator: non-cancelled orders that still owe.
func (r *Repo) ListUnpaid(ctx context.Context) ([]Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE status <> $1 AND total > amount_paid
		ORDER BY created_at`, StatusCancelled)
}

// ListUnpaidByClient is the per-client variant used by the views refresher.
func (r *Repo) ListUnpaidByClient(ctx context.Context, clientID string) ([]Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE client_id=$2 AND status <> $1 AND total > amount_paid
		ORDER BY created_at`, StatusCancelled, clientID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, orderID string) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, product_name, qty, price, subtotal
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "load order items")
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Qty, &it.Price, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repo) queryOrders(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
