package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/orders"
)

type Repo struct{ DB *pgxpool.Pool }

const paymentCols = `id, order_id, client_id, client_name, amount, transfer_reference, payment_date, status, created_at, confirmed_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.ClientID, &p.ClientName, &p.Amount,
		&p.TransferReference, &p.PaymentDate, &p.Status, &p.CreatedAt, &p.ConfirmedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *Repo) Submit(ctx context.Context, p Payment) (Payment, error) {
	p.ID = uuid.NewString()
	p.Status = StatusPending
	row := r.DB.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, client_id, client_name, amount, transfer_reference, payment_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		p.ID, p.OrderID, p.ClientID, p.ClientName, p.Amount, p.TransferReference, p.PaymentDate, p.Status)
	if err := row.Scan(&p.CreatedAt); err != nil {
		return Payment{}, errors.Wrap(err, "insert payment")
	}
	return p, nil
}

// Confirm flips the payment to confirmed and credits the order inside one
// transaction. The pending-only guard makes retries idempotent: a payment
// already confirmed is returned as-is without crediting the order twice.
func (r *Repo) Confirm(ctx context.Context, paymentID string) (Payment, orders.Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Payment{}, orders.Order{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		UPDATE payments SET status=$2, confirmed_at=$3
		WHERE id=$1 AND status=$4
		RETURNING `+paymentCols,
		paymentID, StatusConfirmed, now, StatusPending)
	p, err := scanPayment(row)
	if errors.Is(err, ErrNotFound) {
		return r.confirmAlreadyResolved(ctx, tx, paymentID)
	}
	if err != nil {
		return Payment{}, orders.Order{}, err
	}

	o, err := orders.ApplyPaymentTx(ctx, tx, p.OrderID, p.Amount)
	if err != nil {
		return Payment{}, orders.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Payment{}, orders.Order{}, err
	}
	return p, o, nil
}

func (r *Repo) confirmAlreadyResolved(ctx context.Context, tx pgx.Tx, paymentID string) (Payment, orders.Order, error) {
	p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE id=$1`, paymentID))
	if err != nil {
		return Payment{}, orders.Order{}, err
	}
	if p.Status != StatusConfirmed {
		return Payment{}, orders.Order{}, ErrAlreadyResolved
	}
	// confirmed earlier; fetch the order for the response, credit untouched
	o, err := scanOrderForPayment(ctx, tx, p.OrderID)
	if err != nil {
		return Payment{}, orders.Order{}, err
	}
	return p, o, nil
}

func scanOrderForPayment(ctx context.Context, tx pgx.Tx, orderID string) (orders.Order, error) {
	var o orders.Order
	err := tx.QueryRow(ctx, `
		SELECT id, client_id, client_name, total, status, payment_status, amount_paid, payment_due_date, created_at, confirmed_at, completed_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.ClientID, &o.ClientName, &o.Total, &o.Status, &o.PaymentStatus,
			&o.AmountPaid, &o.PaymentDueDate, &o.CreatedAt, &o.ConfirmedAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, orders.ErrNotFound
	}
	return o, err
}

// Reject marks the payment rejected. The order is never credited.
func (r *Repo) Reject(ctx context.Context, paymentID string) (Payment, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE payments SET status=$2
		WHERE id=$1 AND status=$3
		RETURNING `+paymentCols,
		paymentID, StatusRejected, StatusPending)
	p, err := scanPayment(row)
	if errors.Is(err, ErrNotFound) {
		if _, gerr := r.Get(ctx, paymentID); gerr != nil {
			return Payment{}, gerr
		}
		return Payment{}, ErrAlreadyResolved
	}
	return p, err
}

func (r *Repo) Get(ctx context.Context, paymentID string) (Payment, error) {
	return scanPayment(r.DB.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE id=$1`, paymentID))
}

func (r *Repo) ListPending(ctx context.Context) ([]Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentCols+` FROM payments WHERE status=$1 ORDER BY created_at`, StatusPending)
}

func (r *Repo) ListByClient(ctx context.Context, clientID string) ([]Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentCols+` FROM payments WHERE client_id=$1 ORDER BY created_at DESC`, clientID)
}

func (r *Repo) ListByOrder(ctx context.Context, orderID string) ([]Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentCols+` FROM payments WHERE order_id=$1 ORDER BY created_at`, orderID)
}

// SumConfirmedOn totals payments confirmed on the given day, for the daily close.
func (r *Repo) SumConfirmedOn(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE status=$1 AND confirmed_at >= $2 AND confirmed_at < $3`,
		StatusConfirmed, startOfDay(day), startOfDay(day).AddDate(0, 0, 1)).Scan(&sum)
	return sum, errors.Wrap(err, "sum confirmed payments")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *Repo) queryPayments(ctx context.Context, sql string, args ...any) ([]Payment, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query payments")
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
