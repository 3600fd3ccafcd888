package order

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hdtran/marketplace/core/cart"
	"github.com/shopspring/decimal"
)

func line(productID, shopID string, qty int, price string) cart.Line {
	return cart.Line{
		ProductID: productID,
		ShopID:    shopID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestBuildOnePerShop(t *testing.T) {
	now := time.Now().UTC()

	lines := []cart.Line{
		line("aaaaaaaa-0000-4000-8000-000000000001", "shop-1", 2, "100"),
		line("aaaaaaaa-0000-4000-8000-000000000002", "shop-1", 1, "50"),
		line("aaaaaaaa-0000-4000-8000-000000000003", "shop-2", 3, "20"),
	}

	orders := Build("cust-1", lines, now)

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for 2 shops, got %d", len(orders))
	}

	first, second := orders[0], orders[1]

	if first.ShopID != "shop-1" || second.ShopID != "shop-2" {
		t.Fatalf("orders not in ascending shop order: %s, %s", first.ShopID, second.ShopID)
	}

	if !first.TotalPrice.Equal(decimal.RequireFromString("250")) {
		t.Errorf("shop-1 total: expected 250, got %s", first.TotalPrice)
	}
	if !second.TotalPrice.Equal(decimal.RequireFromString("60")) {
		t.Errorf("shop-2 total: expected 60, got %s", second.TotalPrice)
	}

	if len(first.Items) != 2 || len(second.Items) != 1 {
		t.Fatalf("expected 2 and 1 items, got %d and %d", len(first.Items), len(second.Items))
	}

	for _, ord := range orders {
		if ord.CustomerID != "cust-1" {
			t.Errorf("order[%s]: wrong customer %q", ord.ID, ord.CustomerID)
		}
		if ord.Status != StatusPending {
			t.Errorf("order[%s]: wrong status %q", ord.ID, ord.Status)
		}
		if !ord.CreatedAt.Equal(now) {
			t.Errorf("order[%s]: wrong creation time %s", ord.ID, ord.CreatedAt)
		}
		for _, it := range ord.Items {
			if it.OrderID != ord.ID {
				t.Errorf("item[%s] bound to order %q, expected %q", it.ProductID, it.OrderID, ord.ID)
			}
		}
	}
}

// The total of every built order must equal the sum of its line
// subtotals, whatever the partitioning ends up being.
func TestBuildTotalsMatchItems(t *testing.T) {
	lines := []cart.Line{
		line("aaaaaaaa-0000-4000-8000-000000000001", "shop-3", 7, "19.99"),
		line("aaaaaaaa-0000-4000-8000-000000000002", "shop-1", 1, "0.01"),
		line("aaaaaaaa-0000-4000-8000-000000000003", "shop-2", 3, "125.50"),
		line("aaaaaaaa-0000-4000-8000-000000000004", "shop-1", 2, "42"),
	}

	for _, ord := range Build("cust-1", lines, time.Now().UTC()) {
		sum := decimal.Zero
		for _, it := range ord.Items {
			sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if !ord.TotalPrice.Equal(sum) {
			t.Errorf("order for shop[%s]: total %s != items sum %s", ord.ShopID, ord.TotalPrice, sum)
		}
	}
}

func TestBuildDeterministicGrouping(t *testing.T) {
	lines := []cart.Line{
		line("aaaaaaaa-0000-4000-8000-000000000002", "shop-b", 1, "10"),
		line("aaaaaaaa-0000-4000-8000-000000000001", "shop-a", 1, "10"),
		line("aaaaaaaa-0000-4000-8000-000000000003", "shop-a", 1, "10"),
	}

	shape := func(orders []Order) [][]string {
		var out [][]string
		for _, ord := range orders {
			row := []string{ord.ShopID}
			for _, it := range ord.Items {
				row = append(row, it.ProductID)
			}
			out = append(out, row)
		}
		return out
	}

	want := shape(Build("cust-1", lines, time.Now().UTC()))

	// Same cart in a different slice order must partition identically.
	reordered := []cart.Line{lines[2], lines[0], lines[1]}
	got := shape(Build("cust-1", reordered, time.Now().UTC()))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grouping depends on input order:\n%s", diff)
	}
}

func TestBuildEmpty(t *testing.T) {
	if orders := Build("cust-1", nil, time.Now().UTC()); len(orders) != 0 {
		t.Fatalf("expected no orders from an empty cart, got %d", len(orders))
	}
}

func TestStockPolicies(t *testing.T) {
	five := 5

	inStock := line("aaaaaaaa-0000-4000-8000-000000000001", "shop-1", 3, "10")
	inStock.Available = &five

	outOfStock := line("aaaaaaaa-0000-4000-8000-000000000002", "shop-1", 9, "10")
	outOfStock.Available = &five

	untracked := line("aaaaaaaa-0000-4000-8000-000000000003", "shop-1", 100, "10")

	if err := UnlimitedStock(outOfStock); err != nil {
		t.Errorf("unlimited policy rejected a line: %v", err)
	}

	if err := RejectInsufficientStock(inStock); err != nil {
		t.Errorf("reject policy refused a satisfiable line: %v", err)
	}
	if err := RejectInsufficientStock(outOfStock); err == nil {
		t.Error("reject policy accepted a line above stock")
	}
	if err := RejectInsufficientStock(untracked); err != nil {
		t.Errorf("reject policy refused an untracked line: %v", err)
	}
}
