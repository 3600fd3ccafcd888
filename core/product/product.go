package product

import (
	"time"

	"github.com/hdtran/marketplace/core/review"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/shopspring/decimal"
)

const (
	TypeElectronics = "electronics"
	TypeFashion     = "fashion"
	TypeFurniture   = "furniture"
	TypeBooks       = "books"
)

type Product struct {
	ID           string          `json:"id" db:"product_id"`
	ShopID       string          `json:"shopId" db:"shop_id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Quantity     *int            `json:"quantity,omitempty" db:"quantity"`
	SizeOrWeight *string         `json:"sizeOrWeight,omitempty" db:"size_or_weight"`
	ProductType  string          `json:"productType" db:"product_type"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	Images []Image `json:"images,omitempty" db:"-"`
}

type Image struct {
	ID        string    `json:"id" db:"image_id"`
	ProductID string    `json:"productId" db:"product_id"`
	ImagePath string    `json:"imagePath" db:"image_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Detail is the public product page: the product plus its shop and
// reviews resolved.
type Detail struct {
	Product
	Shop    shop.Shop       `json:"shop"`
	Reviews []review.Review `json:"reviews"`
}

// ProductNew arrives as multipart form fields so images can ride along
// in the same request. Price is validated separately since it is a
// decimal string.
type ProductNew struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	Price        string  `json:"price" validate:"required"`
	Quantity     *int    `json:"quantity" validate:"omitempty,gte=0"`
	SizeOrWeight *string `json:"sizeOrWeight"`
	ProductType  string  `json:"productType" validate:"required,oneof=electronics fashion furniture books"`
}

type ProductUp struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Description  *string `json:"description"`
	Price        *string `json:"price"`
	Quantity     *int    `json:"quantity" validate:"omitempty,gte=0"`
	SizeOrWeight *string `json:"sizeOrWeight"`
	ProductType  *string `json:"productType" validate:"omitempty,oneof=electronics fashion furniture books"`
}
