package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("product not found")

// listLimit caps the public catalog listing.
const listLimit = 50

func Create(ctx context.Context, db sqlx.ExtContext, prd Product) error {
	const q = `
	INSERT INTO products
		(product_id, shop_id, name, description, price, quantity, size_or_weight, product_type, created_at, updated_at)
	VALUES
		(:product_id, :shop_id, :name, :description, :price, :quantity, :size_or_weight, :product_type, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, prd); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, prd Product) error {
	const q = `
	UPDATE products SET
		name = :name,
		description = :description,
		price = :price,
		quantity = :quantity,
		size_or_weight = :size_or_weight,
		product_type = :product_type,
		updated_at = :updated_at
	WHERE product_id = :product_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, prd); err != nil {
		return fmt.Errorf("updating product[%s]: %w", prd.ID, err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var prd Product
	if err := sqlx.GetContext(ctx, db, &prd, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", id, err)
	}

	return prd, nil
}

// List returns the newest products, optionally filtered by a search
// term matched against name and description.
func List(ctx context.Context, db sqlx.ExtContext, term string) ([]Product, error) {
	const q = `
	SELECT * FROM products
	WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
	ORDER BY created_at DESC, product_id
	LIMIT $2`

	products := []Product{}
	if err := sqlx.SelectContext(ctx, db, &products, q, term, listLimit); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return products, nil
}

func FetchByShop(ctx context.Context, db sqlx.ExtContext, shopID string) ([]Product, error) {
	const q = `SELECT * FROM products WHERE shop_id = $1 ORDER BY created_at DESC, product_id`

	products := []Product{}
	if err := sqlx.SelectContext(ctx, db, &products, q, shopID); err != nil {
		return nil, fmt.Errorf("selecting products of shop[%s]: %w", shopID, err)
	}

	return products, nil
}

func CreateImage(ctx context.Context, db sqlx.ExtContext, img Image) error {
	const q = `
	INSERT INTO product_images
		(image_id, product_id, image_path, created_at)
	VALUES
		(:image_id, :product_id, :image_path, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, img); err != nil {
		return fmt.Errorf("inserting product image: %w", err)
	}

	return nil
}

func FetchImages(ctx context.Context, db sqlx.ExtContext, productID string) ([]Image, error) {
	const q = `SELECT * FROM product_images WHERE product_id = $1 ORDER BY created_at, image_id`

	images := []Image{}
	if err := sqlx.SelectContext(ctx, db, &images, q, productID); err != nil {
		return nil, fmt.Errorf("selecting images of product[%s]: %w", productID, err)
	}

	return images, nil
}

func Count(ctx context.Context, db sqlx.ExtContext) (int, error) {
	const q = `SELECT COUNT(*) FROM products`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return n, nil
}
