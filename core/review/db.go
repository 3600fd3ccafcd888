package review

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, rev Review) error {
	const q = `
	INSERT INTO reviews
		(review_id, product_id, customer_id, rating, content, created_at)
	VALUES
		(:review_id, :product_id, :customer_id, :rating, :content, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, rev); err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}

	return nil
}

func FetchByProduct(ctx context.Context, db sqlx.ExtContext, productID string) ([]Review, error) {
	const q = `
	SELECT
		r.review_id, r.product_id, r.customer_id, u.name AS customer_name,
		r.rating, r.content, r.created_at
	FROM reviews AS r
	JOIN users AS u ON u.user_id = r.customer_id
	WHERE r.product_id = $1
	ORDER BY r.created_at DESC, r.review_id`

	reviews := []Review{}
	if err := sqlx.SelectContext(ctx, db, &reviews, q, productID); err != nil {
		return nil, fmt.Errorf("selecting reviews of product[%s]: %w", productID, err)
	}

	return reviews, nil
}
