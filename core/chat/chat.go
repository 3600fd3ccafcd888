package chat

import "time"

const (
	SenderCustomer = "customer"
	SenderShop     = "shop"
)

// Message is one entry of the conversation between a customer and the
// owner of the shop selling the product.
type Message struct {
	ID          string    `json:"id" db:"message_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	CustomerID  string    `json:"customerId" db:"customer_id"`
	ShopOwnerID string    `json:"shopOwnerId" db:"shop_owner_id"`
	Sender      string    `json:"sender" db:"sender"`
	Message     string    `json:"message" db:"message"`
	SentAt      time.Time `json:"sentAt" db:"sent_at"`
}

type MessageNew struct {
	Message string `json:"message" validate:"required"`
}
