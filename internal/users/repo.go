package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("user not found")

type Repo struct{ DB *pgxpool.Pool }

type Input struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	CreditAllowed bool    `json:"credit_allowed"`
}

const userCols = `id, name, email, role, phone, address, credit_allowed, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.Address, &u.CreditAllowed, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (r *Repo) Create(ctx context.Context, in Input) (User, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO users (id, name, email, role, phone, address, credit_allowed)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+userCols,
		uuid.NewString(), in.Name, in.Email, in.Role, in.Phone, in.Address, in.CreditAllowed)
	u, err := scanUser(row)
	return u, errors.Wrap(err, "insert user")
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET name=$2, email=$3, role=$4, phone=$5, address=$6, credit_allowed=$7
		WHERE id=$1
		RETURNING `+userCols,
		id, in.Name, in.Email, in.Role, in.Phone, in.Address, in.CreditAllowed)
	return scanUser(row)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
