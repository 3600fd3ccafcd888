package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("order not found")

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders
		(order_id, customer_id, shop_id, total_price, status, tracking_code, shipping_company, created_at)
	VALUES
		(:order_id, :customer_id, :shop_id, :total_price, :status, :tracking_code, :shipping_company, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items
		(order_id, product_id, quantity, unit_price)
	VALUES
		(:order_id, :product_id, :quantity, :unit_price)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Order, error) {
	const q = `SELECT * FROM orders WHERE order_id = $1`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, err)
	}

	items, err := FetchItems(ctx, db, id)
	if err != nil {
		return Order{}, err
	}
	ord.Items = items

	return ord, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, orderID string) ([]Item, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_id`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, orderID); err != nil {
		return nil, fmt.Errorf("selecting items of order[%s]: %w", orderID, err)
	}

	return items, nil
}

// FetchByCustomer returns the customer's orders, newest first, with
// their items resolved.
func FetchByCustomer(ctx context.Context, db sqlx.ExtContext, customerID string) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE customer_id = $1 ORDER BY created_at DESC, order_id`

	orders := []Order{}
	if err := sqlx.SelectContext(ctx, db, &orders, q, customerID); err != nil {
		return nil, fmt.Errorf("selecting orders of customer[%s]: %w", customerID, err)
	}

	for i := range orders {
		items, err := FetchItems(ctx, db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func FetchByShop(ctx context.Context, db sqlx.ExtContext, shopID string) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE shop_id = $1 ORDER BY created_at DESC, order_id`

	orders := []Order{}
	if err := sqlx.SelectContext(ctx, db, &orders, q, shopID); err != nil {
		return nil, fmt.Errorf("selecting orders of shop[%s]: %w", shopID, err)
	}

	for i := range orders {
		items, err := FetchItems(ctx, db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func Count(ctx context.Context, db sqlx.ExtContext) (int, error) {
	const q = `SELECT COUNT(*) FROM orders`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}

	return n, nil
}

// UpdateStatus sets the shipping fields of one order, guarded by the
// owning shop so one shop cannot touch another's orders.
func UpdateStatus(ctx context.Context, db sqlx.ExtContext, orderID string, shopID string, up StatusUp) error {
	const q = `
	UPDATE orders SET
		status = :status,
		tracking_code = :tracking_code,
		shipping_company = :shipping_company
	WHERE order_id = :order_id AND shop_id = :shop_id`

	data := struct {
		OrderID         string  `db:"order_id"`
		ShopID          string  `db:"shop_id"`
		Status          string  `db:"status"`
		TrackingCode    *string `db:"tracking_code"`
		ShippingCompany *string `db:"shipping_company"`
	}{
		OrderID:         orderID,
		ShopID:          shopID,
		Status:          up.Status,
		TrackingCode:    up.TrackingCode,
		ShippingCompany: up.ShippingCompany,
	}

	res, err := sqlx.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return fmt.Errorf("updating status of order[%s]: %w", orderID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}
