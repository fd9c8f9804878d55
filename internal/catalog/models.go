package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	SupplierID *string         `json:"supplier_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// StockMovement is one journaled stock change. Every mutation of
// products.stock goes through the ledger and leaves a row here.
type StockMovement struct {
	ID            int64     `json:"id"`
	ProductID     string    `json:"product_id"`
	Delta         int       `json:"delta"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	ReferenceID   *string   `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	ReasonOrderConfirm = "order_confirm"
	ReasonOrderCancel  = "order_cancel"
	ReasonSale         = "sale"
	ReasonAdjustment   = "adjustment"
)
