package review

import "time"

type Review struct {
	ID           string    `json:"id" db:"review_id"`
	ProductID    string    `json:"productId" db:"product_id"`
	CustomerID   string    `json:"customerId" db:"customer_id"`
	CustomerName string    `json:"customerName" db:"customer_name"`
	Rating       int       `json:"rating" db:"rating"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type ReviewNew struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Content string `json:"content" validate:"required"`
}
