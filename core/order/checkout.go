package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hdtran/marketplace/core/cart"
	"github.com/hdtran/marketplace/database"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart reports a checkout on a cart with nothing in it. It is
// informational: no state was touched.
var ErrEmptyCart = errors.New("no items to checkout")

// StockPolicy decides per cart line whether the order may proceed. It
// runs inside the checkout transaction, on the same snapshot the price
// is read from.
type StockPolicy func(line cart.Line) error

// UnlimitedStock treats the tracked product quantity as informational
// and never blocks a checkout.
func UnlimitedStock(cart.Line) error { return nil }

// RejectInsufficientStock refuses lines asking for more than the
// product has on hand. Products without a tracked quantity pass.
func RejectInsufficientStock(line cart.Line) error {
	if line.Available != nil && *line.Available < line.Quantity {
		return fmt.Errorf("product[%s]: only %d in stock, %d requested", line.ProductID, *line.Available, line.Quantity)
	}
	return nil
}

// Checkout turns the customer's cart into one order per selling shop
// and empties the cart, all inside a single transaction: either every
// order with its items is committed and the ordered lines are gone, or
// nothing changed at all. The cart rows are locked for the duration,
// so a second checkout racing on the same cart observes either the
// full cart (it won the lock) or an empty one (it lost), never a
// partial state.
func Checkout(ctx context.Context, db *sqlx.DB, customerID string, policy StockPolicy) ([]Order, error) {
	if policy == nil {
		policy = UnlimitedStock
	}

	var orders []Order

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		lines, err := cart.FetchLinesLocked(ctx, tx, customerID)
		if err != nil {
			return fmt.Errorf("fetching cart lines: %w", err)
		}

		if len(lines) == 0 {
			return ErrEmptyCart
		}

		for _, l := range lines {
			if err := policy(l); err != nil {
				return fmt.Errorf("stock check: %w", err)
			}
		}

		orders = Build(customerID, lines, time.Now().UTC())

		for _, ord := range orders {
			if err := Create(ctx, tx, ord); err != nil {
				return fmt.Errorf("creating order for shop[%s]: %w", ord.ShopID, err)
			}

			for _, it := range ord.Items {
				if err := CreateItem(ctx, tx, it); err != nil {
					return fmt.Errorf("creating order item[%s]: %w", it.ProductID, err)
				}
			}
		}

		ordered := make([]string, 0, len(lines))
		for _, l := range lines {
			ordered = append(ordered, l.ProductID)
		}

		if err := cart.DeleteProducts(ctx, tx, customerID, ordered); err != nil {
			return fmt.Errorf("clearing ordered cart lines: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// Build partitions the cart lines by selling shop and constructs one
// order per shop, shops in ascending id order and each order's items
// in ascending product id order. Pure: no ids are resolved against the
// store and no clock is read.
func Build(customerID string, lines []cart.Line, now time.Time) []Order {
	byShop := make(map[string][]cart.Line)
	for _, l := range lines {
		byShop[l.ShopID] = append(byShop[l.ShopID], l)
	}

	shopIDs := make([]string, 0, len(byShop))
	for id := range byShop {
		shopIDs = append(shopIDs, id)
	}
	sort.Strings(shopIDs)

	orders := make([]Order, 0, len(shopIDs))
	for _, shopID := range shopIDs {
		group := byShop[shopID]
		sort.Slice(group, func(i, j int) bool { return group[i].ProductID < group[j].ProductID })

		ord := Order{
			ID:         validate.GenerateID(),
			CustomerID: customerID,
			ShopID:     shopID,
			TotalPrice: decimal.Zero,
			Status:     StatusPending,
			CreatedAt:  now,
		}

		for _, l := range group {
			ord.Items = append(ord.Items, Item{
				OrderID:   ord.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
			ord.TotalPrice = ord.TotalPrice.Add(l.Subtotal())
		}

		orders = append(orders, ord)
	}

	return orders
}
