package test

import (
	"net/http"
	"testing"

	"github.com/hdtran/marketplace/core/order"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/shopspring/decimal"
)

// The shop profile comes into being on first access and stays the
// same row on every subsequent call.
func TestShopLazyCreation(t *testing.T) {
	env, err := NewTestEnv(t, "shop_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	env.Login(t, env.OwnerEmail)
	defer env.Logout(t)

	var first, second shop.Shop
	if status := env.Do(t, http.MethodGet, "/shop", nil, &first); status != http.StatusOK {
		t.Fatalf("first shop access: status %d", status)
	}
	if status := env.Do(t, http.MethodGet, "/shop", nil, &second); status != http.StatusOK {
		t.Fatalf("second shop access: status %d", status)
	}

	if first.ID != second.ID {
		t.Fatalf("repeated access created a second shop: %s then %s", first.ID, second.ID)
	}
	if first.Name == "" {
		t.Fatal("lazily created shop has no default name")
	}

	up := map[string]any{"name": "Corner Books", "phone": "555-0101"}
	var updated shop.Shop
	if status := env.Do(t, http.MethodPut, "/shop", up, &updated); status != http.StatusOK {
		t.Fatalf("updating shop: status %d", status)
	}
	if updated.Name != "Corner Books" || updated.Phone != "555-0101" {
		t.Fatalf("shop update not applied: %+v", updated)
	}
}

func TestShopDashboardAndReport(t *testing.T) {
	env, err := NewTestEnv(t, "shop_stats_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	prd, _ := createProduct(t, env, env.OwnerEmail, "dashboard product", "40")

	env.Login(t, env.CustomerEmail)
	addToCart(t, env, prd.ID, 2)
	var orders []order.Order
	if status := env.Do(t, http.MethodPost, "/orders", nil, &orders); status != http.StatusCreated {
		t.Fatalf("checking out: status %d", status)
	}
	env.Logout(t)

	env.Login(t, env.OwnerEmail)
	defer env.Logout(t)

	var dash shop.Dashboard
	if status := env.Do(t, http.MethodGet, "/shop/dashboard", nil, &dash); status != http.StatusOK {
		t.Fatalf("fetching dashboard: status %d", status)
	}

	if dash.OrdersCount != 1 {
		t.Errorf("dashboard orders: expected 1, got %d", dash.OrdersCount)
	}
	if want := decimal.RequireFromString("80"); !dash.Revenue.Equal(want) {
		t.Errorf("dashboard revenue: expected %s, got %s", want, dash.Revenue)
	}
	if dash.ProductCount != 1 {
		t.Errorf("dashboard products: expected 1, got %d", dash.ProductCount)
	}

	var rep shop.Report
	if status := env.Do(t, http.MethodGet, "/shop/report", nil, &rep); status != http.StatusOK {
		t.Fatalf("fetching report: status %d", status)
	}
	if rep.OrdersCount != 1 || !rep.Revenue.Equal(decimal.RequireFromString("80")) {
		t.Errorf("current-year report off: %+v", rep)
	}

	// A window with no orders reports zero.
	if status := env.Do(t, http.MethodGet, "/shop/report?year=2000", nil, &rep); status != http.StatusOK {
		t.Fatalf("fetching empty report: status %d", status)
	}
	if rep.OrdersCount != 0 || !rep.Revenue.IsZero() {
		t.Errorf("empty-window report off: %+v", rep)
	}

	// Shop owners see and progress their incoming orders.
	var incoming []order.Order
	if status := env.Do(t, http.MethodGet, "/shop/orders", nil, &incoming); status != http.StatusOK {
		t.Fatalf("listing shop orders: status %d", status)
	}
	if len(incoming) != 1 || incoming[0].Status != order.StatusPending {
		t.Fatalf("expected one pending incoming order, got %+v", incoming)
	}

	up := map[string]any{"status": "shipped", "trackingCode": "TRK-1", "shippingCompany": "ACME Post"}
	if status := env.Do(t, http.MethodPut, "/shop/orders/"+incoming[0].ID+"/status", up, nil); status != http.StatusNoContent {
		t.Fatalf("updating order status: status %d", status)
	}
}
