// Package settings holds the single-row store configuration the storefront
// reads, such as the WhatsApp number order messages are sent to.
package settings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Settings struct {
	WhatsAppNumber string    `json:"whatsapp_number"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.DB.QueryRow(ctx, `SELECT whatsapp_number, updated_at FROM settings WHERE id=1`).
		Scan(&s.WhatsAppNumber, &s.UpdatedAt)
	return s, errors.Wrap(err, "load settings")
}

func (r *Repo) Update(ctx context.Context, whatsappNumber string) (Settings, error) {
	var s Settings
	err := r.DB.QueryRow(ctx, `
		UPDATE settings SET whatsapp_number=$1, updated_at=now() WHERE id=1
		RETURNING whatsapp_number, updated_at`, whatsappNumber).
		Scan(&s.WhatsAppNumber, &s.UpdatedAt)
	return s, errors.Wrap(err, "update settings")
}
