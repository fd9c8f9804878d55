package sales

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

// Record prices the items, writes the sale and takes the stock, all in one
// transaction. Counter sales consume stock immediately; a short product
// fails the whole sale.
func (r *Repo) Record(ctx context.Context, cashierID, cashierName string, method PaymentMethod, inputs []ItemInput) (Sale, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sale{}, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	rows, err := tx.Query(ctx, `SELECT id, name, price FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return Sale{}, errors.Wrap(err, "load product prices")
	}
	type priced struct {
		name  string
		price decimal.Decimal
	}
	prices := map[string]priced{}
	for rows.Next() {
		var id string
		var p priced
		if err := rows.Scan(&id, &p.name, &p.price); err != nil {
			rows.Close()
			return Sale{}, err
		}
		prices[id] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Sale{}, err
	}

	s := Sale{
		ID:            uuid.NewString(),
		PaymentMethod: method,
		CashierID:     cashierID,
		CashierName:   cashierName,
		Total:         decimal.Zero,
	}
	for _, in := range inputs {
		p, ok := prices[in.ProductID]
		if !ok {
			return Sale{}, errors.Wrapf(catalog.ErrNotFound, "product %s", in.ProductID)
		}
		subtotal := p.price.Mul(decimal.NewFromInt(int64(in.Qty)))
		s.Items = append(s.Items, Item{
			ProductID:   in.ProductID,
			ProductName: p.name,
			Qty:         in.Qty,
			Price:       p.price,
			Subtotal:    subtotal,
		})
		s.Total = s.Total.Add(subtotal)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO sales (id, cashier_id, cashier_name, payment_method, total)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		s.ID, s.CashierID, s.CashierName, s.PaymentMethod, s.Total)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Sale{}, errors.Wrap(err, "insert sale")
	}
	for _, it := range s.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, product_id, product_name, qty, price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			s.ID, it.ProductID, it.ProductName, it.Qty, it.Price, it.Subtotal); err != nil {
			return Sale{}, errors.Wrap(err, "insert sale item")
		}
		if _, err := catalog.ApplyDeltaTx(ctx, tx, it.ProductID, -it.Qty, catalog.ReasonSale, &s.ID); err != nil {
			return Sale{}, errors.Wrapf(err, "product %s", it.ProductName)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *Repo) Get(ctx context.Context, saleID string) (Sale, error) {
	var s Sale
	err := r.DB.QueryRow(ctx, `
		SELECT id, cashier_id, cashier_name, payment_method, total, created_at
		FROM sales WHERE id=$1`, saleID).
		Scan(&s.ID, &s.CashierID, &s.CashierName, &s.PaymentMethod, &s.Total, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}
	s.Items, err = r.loadItems(ctx, saleID)
	return s, err
}

// ListOn returns the sales of one calendar day (UTC), newest first.
func (r *Repo) ListOn(ctx context.Context, day time.Time) ([]Sale, error) {
	from := startOfDay(day)
	rows, err := r.DB.Query(ctx, `
		SELECT id, cashier_id, cashier_name, payment_method, total, created_at
		FROM sales WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC`, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, errors.Wrap(err, "query sales")
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.CashierID, &s.CashierName, &s.PaymentMethod, &s.Total, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.loadItems(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MethodTotals sums one day's sales per payment method.
func (r *Repo) MethodTotals(ctx context.Context, day time.Time) (map[PaymentMethod]decimal.Decimal, int, error) {
	from := startOfDay(day)
	rows, err := r.DB.Query(ctx, `
		SELECT payment_method, SUM(total), COUNT(*)
		FROM sales WHERE created_at >= $1 AND created_at < $2
		GROUP BY payment_method`, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, 0, errors.Wrap(err, "aggregate sales")
	}
	defer rows.Close()

	totals := map[PaymentMethod]decimal.Decimal{}
	count := 0
	for rows.Next() {
		var m PaymentMethod
		var sum decimal.Decimal
		var n int
		if err := rows.Scan(&m, &sum, &n); err != nil {
			return nil, 0, err
		}
		totals[m] = sum
		count += n
	}
	return totals, count, rows.Err()
}

func (r *Repo) loadItems(ctx context.Context, saleID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, product_name, qty, price, subtotal
		FROM sale_items WHERE sale_id=$1 ORDER BY id`, saleID)
	if err != nil {
		return nil, errors.Wrap(err, "load sale items")
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

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
