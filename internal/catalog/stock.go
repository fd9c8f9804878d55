package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ErrInsufficientStock is returned when a decrement would take stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Ledger is the only writer of products.stock. Standalone adjustments go
// through Adjust; order confirmation and sales use the Tx helpers inside
// their own transactions so the stock change commits or rolls back with
// the rest of the operation.
type Ledger struct{ DB *pgxpool.Pool }

// LockStockTx reads a product's stock under FOR UPDATE, holding the row
// lock until the transaction ends.
func LockStockTx(ctx context.Context, tx pgx.Tx, productID string) (int, error) {
	var stock int
	err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return stock, err
}

// ApplyDeltaTx moves stock by delta and journals the movement. The update is
// conditional on stock staying non-negative, so a concurrent writer cannot
// push it below zero even without a prior lock.
func ApplyDeltaTx(ctx context.Context, tx pgx.Tx, productID string, delta int, reason string, referenceID *string) (newStock int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`, productID, delta).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		// either the product is gone or the decrement would go negative
		var exists bool
		if e := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); e != nil {
			return 0, e
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, errors.Wrap(err, "apply stock delta")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (product_id, delta, previous_stock, new_stock, reason, reference_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		productID, delta, newStock-delta, newStock, reason, referenceID)
	return newStock, errors.Wrap(err, "journal stock movement")
}

// Adjust applies a manual stock correction as its own transaction.
func (l *Ledger) Adjust(ctx context.Context, productID string, delta int, reason string) (int, error) {
	if reason == "" {
		reason = ReasonAdjustment
	}
	tx, err := l.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newStock, err := ApplyDeltaTx(ctx, tx, productID, delta, reason, nil)
	if err != nil {
		return 0, err
	}
	return newStock, tx.Commit(ctx)
}

func (l *Ledger) Movements(ctx context.Context, productID string, limit int) ([]StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.DB.Query(ctx, `
		SELECT id, product_id, delta, previous_stock, new_stock, reason, reference_id, created_at
		FROM stock_movements WHERE product_id=$1 ORDER BY id DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query stock movements")
	}
	defer rows.Close()

	var out []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.PreviousStock, &m.NewStock, &m.Reason, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
