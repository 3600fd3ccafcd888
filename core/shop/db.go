package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("shop not found")

// Upsert creates the shop profile for a user if it does not exist yet
// and returns the stored row either way. Keyed on user_id, so calling
// it repeatedly is idempotent.
func Upsert(ctx context.Context, db sqlx.ExtContext, shp Shop) (Shop, error) {
	const q = `
	INSERT INTO shops
		(shop_id, user_id, name, address, phone, created_at, updated_at)
	VALUES
		($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id) DO UPDATE
		SET user_id = EXCLUDED.user_id
	RETURNING *`

	var out Shop
	err := sqlx.GetContext(ctx, db, &out, q,
		shp.ID, shp.UserID, shp.Name, shp.Address, shp.Phone, shp.CreatedAt, shp.UpdatedAt)
	if err != nil {
		return Shop{}, fmt.Errorf("upserting shop for user[%s]: %w", shp.UserID, err)
	}

	return out, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Shop, error) {
	const q = `SELECT * FROM shops WHERE shop_id = $1`

	var shp Shop
	if err := sqlx.GetContext(ctx, db, &shp, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shop{}, ErrNotFound
		}
		return Shop{}, fmt.Errorf("selecting shop[%s]: %w", id, err)
	}

	return shp, nil
}

func FetchByOwner(ctx context.Context, db sqlx.ExtContext, userID string) (Shop, error) {
	const q = `SELECT * FROM shops WHERE user_id = $1`

	var shp Shop
	if err := sqlx.GetContext(ctx, db, &shp, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shop{}, ErrNotFound
		}
		return Shop{}, fmt.Errorf("selecting shop of user[%s]: %w", userID, err)
	}

	return shp, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, shp Shop) error {
	const q = `
	UPDATE shops SET
		name = :name,
		address = :address,
		phone = :phone,
		updated_at = :updated_at
	WHERE shop_id = :shop_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, shp); err != nil {
		return fmt.Errorf("updating shop[%s]: %w", shp.ID, err)
	}

	return nil
}

type statsRow struct {
	OrdersCount  int             `db:"orders_count"`
	Revenue      decimal.Decimal `db:"revenue"`
	Stock        int             `db:"stock"`
	ProductCount int             `db:"product_count"`
}

// FetchStats gathers the dashboard aggregates for one shop.
func FetchStats(ctx context.Context, db sqlx.ExtContext, shopID string) (Dashboard, error) {
	const q = `
	SELECT
		(SELECT COUNT(*) FROM orders WHERE shop_id = $1)                          AS orders_count,
		(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE shop_id = $1)     AS revenue,
		(SELECT COALESCE(SUM(quantity), 0) FROM products WHERE shop_id = $1)      AS stock,
		(SELECT COUNT(*) FROM products WHERE shop_id = $1)                        AS product_count`

	var row statsRow
	if err := sqlx.GetContext(ctx, db, &row, q, shopID); err != nil {
		return Dashboard{}, fmt.Errorf("selecting stats of shop[%s]: %w", shopID, err)
	}

	return Dashboard{
		OrdersCount:  row.OrdersCount,
		Revenue:      row.Revenue,
		Stock:        row.Stock,
		ProductCount: row.ProductCount,
	}, nil
}

// FetchReport sums revenue and order count over the given window. A
// zero month means the whole year.
func FetchReport(ctx context.Context, db sqlx.ExtContext, shopID string, year int, month int) (Report, error) {
	const q = `
	SELECT
		COUNT(*)                      AS orders_count,
		COALESCE(SUM(total_price), 0) AS revenue
	FROM orders
	WHERE shop_id = $1
	  AND EXTRACT(YEAR FROM created_at) = $2
	  AND ($3 = 0 OR EXTRACT(MONTH FROM created_at) = $3)`

	var row struct {
		OrdersCount int             `db:"orders_count"`
		Revenue     decimal.Decimal `db:"revenue"`
	}
	if err := sqlx.GetContext(ctx, db, &row, q, shopID, year, month); err != nil {
		return Report{}, fmt.Errorf("selecting report of shop[%s]: %w", shopID, err)
	}

	return Report{
		Year:        year,
		Month:       month,
		OrdersCount: row.OrdersCount,
		Revenue:     row.Revenue,
	}, nil
}

func Count(ctx context.Context, db sqlx.ExtContext) (int, error) {
	const q = `SELECT COUNT(*) FROM shops`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q); err != nil {
		return 0, fmt.Errorf("counting shops: %w", err)
	}

	return n, nil
}
