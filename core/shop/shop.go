package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

type Shop struct {
	ID        string    `json:"id" db:"shop_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type ShopUp struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// Dashboard aggregates the numbers shown on the storefront landing
// page of a shop owner.
type Dashboard struct {
	Shop         Shop            `json:"shop"`
	OrdersCount  int             `json:"ordersCount"`
	Revenue      decimal.Decimal `json:"revenue"`
	Stock        int             `json:"stock"`
	ProductCount int             `json:"productCount"`
}

// Report is the revenue summary over an optional year/month window.
type Report struct {
	Year        int             `json:"year"`
	Month       int             `json:"month,omitempty"`
	OrdersCount int             `json:"ordersCount"`
	Revenue     decimal.Decimal `json:"revenue"`
}
