package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	CustomerID string    `json:"-" db:"customer_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	AddedAt    time.Time `json:"addedAt" db:"added_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Line is a cart item with its product and selling shop resolved, the
// view both the cart page and the checkout work from. UnitPrice is the
// product's current price, not a snapshot.
type Line struct {
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Available   *int            `json:"available,omitempty" db:"available"`
	ShopID      string          `json:"shopId" db:"shop_id"`
	ShopName    string          `json:"shopName" db:"shop_name"`
	AddedAt     time.Time       `json:"addedAt" db:"added_at"`
}

// Subtotal is quantity times the current unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the customer-facing view of the pending items.
type Cart struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type ItemNew struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

type ItemUp struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}
