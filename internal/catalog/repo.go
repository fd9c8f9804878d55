package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Repo struct{ DB *pgxpool.Pool }

type ProductInput struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	SupplierID *string         `json:"supplier_id"`
}

const productCols = `id, code, name, image_url, category, price, cost, stock, min_stock, supplier_id, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.ImageURL, &p.Category,
		&p.Price, &p.Cost, &p.Stock, &p.MinStock, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products (id, code, name, image_url, category, price, cost, stock, min_stock, supplier_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+productCols,
		id, in.Code, in.Name, in.ImageURL, in.Category, in.Price, in.Cost, in.Stock, in.MinStock, in.SupplierID)
	p, err := scanProduct(row)
	return p, errors.Wrap(err, "insert product")
}

// UpdateProduct edits master data. Stock is deliberately absent: it only
// moves through the ledger.
func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET code=$2, name=$3, image_url=$4, category=$5, price=$6, cost=$7, min_stock=$8, supplier_id=$9, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		id, in.Code, in.Name, in.ImageURL, in.Category, in.Price, in.Cost, in.MinStock, in.SupplierID)
	return scanProduct(row)
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productCols+` FROM products ORDER BY code`)
}

// ListLowStock returns products at or below their minimum threshold.
func (r *Repo) ListLowStock(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productCols+` FROM products WHERE stock <= min_stock ORDER BY code`)
}

func (r *Repo) queryProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
