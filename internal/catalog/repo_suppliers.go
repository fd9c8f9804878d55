package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type SupplierInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.Address, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *Repo) CreateSupplier(ctx context.Context, in SupplierInput) (Supplier, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO suppliers (id, name, contact, phone, email, address)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, name, contact, phone, email, address, created_at`,
		uuid.NewString(), in.Name, in.Contact, in.Phone, in.Email, in.Address)
	s, err := scanSupplier(row)
	return s, errors.Wrap(err, "insert supplier")
}

func (r *Repo) UpdateSupplier(ctx context.Context, id string, in SupplierInput) (Supplier, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE suppliers SET name=$2, contact=$3, phone=$4, email=$5, address=$6
		WHERE id=$1
		RETURNING id, name, contact, phone, email, address, created_at`,
		id, in.Name, in.Contact, in.Phone, in.Email, in.Address)
	return scanSupplier(row)
}

func (r *Repo) DeleteSupplier(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete supplier")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, contact, phone, email, address, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query suppliers")
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
