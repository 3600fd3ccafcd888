package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPending is the status every order starts with. The field is
// free text beyond that: shops set whatever their process uses.
const StatusPending = "pending"

type Order struct {
	ID              string          `json:"id" db:"order_id"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	ShopID          string          `json:"shopId" db:"shop_id"`
	TotalPrice      decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status          string          `json:"status" db:"status"`
	TrackingCode    *string         `json:"trackingCode,omitempty" db:"tracking_code"`
	ShippingCompany *string         `json:"shippingCompany,omitempty" db:"shipping_company"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`

	Items []Item `json:"items,omitempty" db:"-"`
}

// Item snapshots one cart line at checkout time. UnitPrice is copied
// from the product when the order is placed; later price edits never
// touch it.
type Item struct {
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

type StatusUp struct {
	Status          string  `json:"status" validate:"required"`
	TrackingCode    *string `json:"trackingCode"`
	ShippingCompany *string `json:"shippingCompany"`
}
