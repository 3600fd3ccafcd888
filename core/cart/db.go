package cart

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Upsert adds a product to the customer's cart, incrementing the
// quantity when the product is already there. At most one row per
// (customer, product) pair can exist.
func Upsert(ctx context.Context, db sqlx.ExtContext, item Item) error {
	const q = `
	INSERT INTO cart_items
		(customer_id, product_id, quantity, added_at, updated_at)
	VALUES
		(:customer_id, :product_id, :quantity, :added_at, :updated_at)
	ON CONFLICT (customer_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at`

	if _, err := sqlx.NamedExecContext(ctx, db, q, item); err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}

	return nil
}

// SetQuantity overwrites the quantity of one cart line. Zero removes
// the line entirely.
func SetQuantity(ctx context.Context, db sqlx.ExtContext, item Item) error {
	if item.Quantity == 0 {
		return DeleteItem(ctx, db, item.CustomerID, item.ProductID)
	}

	const q = `
	UPDATE cart_items SET
		quantity = :quantity,
		updated_at = :updated_at
	WHERE customer_id = :customer_id AND product_id = :product_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, item); err != nil {
		return fmt.Errorf("updating cart item: %w", err)
	}

	return nil
}

func DeleteItem(ctx context.Context, db sqlx.ExtContext, customerID string, productID string) error {
	const q = `DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`

	if _, err := db.ExecContext(ctx, q, customerID, productID); err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, customerID string) error {
	const q = `DELETE FROM cart_items WHERE customer_id = $1`

	if _, err := db.ExecContext(ctx, q, customerID); err != nil {
		return fmt.Errorf("flushing cart of customer[%s]: %w", customerID, err)
	}

	return nil
}

// DeleteProducts removes only the given products from the customer's
// cart. Checkout uses it so lines added concurrently with the checkout
// read survive for the next call.
func DeleteProducts(ctx context.Context, db sqlx.ExtContext, customerID string, productIDs []string) error {
	const q = `DELETE FROM cart_items WHERE customer_id = $1 AND product_id = ANY($2)`

	if _, err := db.ExecContext(ctx, q, customerID, pq.Array(productIDs)); err != nil {
		return fmt.Errorf("deleting ordered cart items of customer[%s]: %w", customerID, err)
	}

	return nil
}

const linesQuery = `
	SELECT
		ci.product_id,
		p.name      AS product_name,
		p.price     AS unit_price,
		ci.quantity,
		p.quantity  AS available,
		s.shop_id,
		s.name      AS shop_name,
		ci.added_at
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	JOIN shops AS s ON s.shop_id = p.shop_id
	WHERE ci.customer_id = $1
	ORDER BY s.shop_id, ci.product_id`

// FetchLines resolves the customer's cart with product and shop data.
func FetchLines(ctx context.Context, db sqlx.ExtContext, customerID string) ([]Line, error) {
	lines := []Line{}
	if err := sqlx.SelectContext(ctx, db, &lines, linesQuery, customerID); err != nil {
		return nil, fmt.Errorf("selecting cart lines of customer[%s]: %w", customerID, err)
	}

	return lines, nil
}

// FetchLinesLocked is FetchLines with the cart rows locked for the
// duration of the surrounding transaction. Two checkouts racing on the
// same cart serialize here: the loser blocks, then re-reads whatever
// the winner left behind. Prices are read in the same snapshot, so the
// unit-price captured on the order lines cannot drift mid-checkout.
func FetchLinesLocked(ctx context.Context, tx sqlx.ExtContext, customerID string) ([]Line, error) {
	const q = linesQuery + `
	FOR UPDATE OF ci`

	lines := []Line{}
	if err := sqlx.SelectContext(ctx, tx, &lines, q, customerID); err != nil {
		return nil, fmt.Errorf("locking cart lines of customer[%s]: %w", customerID, err)
	}

	return lines, nil
}
