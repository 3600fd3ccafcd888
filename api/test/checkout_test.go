package test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/hdtran/marketplace/core/cart"
	"github.com/hdtran/marketplace/core/order"
	"github.com/hdtran/marketplace/core/product"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/shopspring/decimal"
)

// createProduct logs in as the given owner, makes sure their shop
// exists and creates one product.
func createProduct(t *testing.T, env *TestEnv, ownerEmail string, name string, price string) (product.Product, shop.Shop) {
	t.Helper()

	env.Login(t, ownerEmail)
	defer env.Logout(t)

	var shp shop.Shop
	if status := env.Do(t, http.MethodGet, "/shop", nil, &shp); status != http.StatusOK {
		t.Fatalf("resolving shop of %s: status %d", ownerEmail, status)
	}

	var prd product.Product
	status := env.PostProduct(t, map[string]string{
		"name":        name,
		"price":       price,
		"productType": product.TypeBooks,
	}, &prd)
	if status != http.StatusCreated {
		t.Fatalf("creating product %q: status %d", name, status)
	}

	return prd, shp
}

func addToCart(t *testing.T, env *TestEnv, productID string, qty int) {
	t.Helper()

	body := map[string]any{"productId": productID, "quantity": qty}
	if status := env.Do(t, http.MethodPut, "/cart/items", body, nil); status != http.StatusCreated {
		t.Fatalf("adding product[%s] to cart: status %d", productID, status)
	}
}

// The canonical multi-shop scenario: three cart lines across two
// shops come out as two orders with per-shop totals, and the cart is
// empty afterwards.
func TestCheckout(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	// Second seller signs up through the public endpoint.
	otherOwner := "owner2@checkout.test"
	signup := map[string]string{
		"name": "second owner", "email": otherOwner, "password": env.Password, "role": "shopowner",
	}
	if status := env.Do(t, http.MethodPost, "/auth/signup", signup, nil); status != http.StatusCreated {
		t.Fatalf("signing up second owner: status %d", status)
	}
	env.Logout(t)

	prdA, shp1 := createProduct(t, env, env.OwnerEmail, "product A", "100")
	prdB, _ := createProduct(t, env, env.OwnerEmail, "product B", "50")
	prdC, shp2 := createProduct(t, env, otherOwner, "product C", "20")

	env.Login(t, env.CustomerEmail)
	defer env.Logout(t)

	addToCart(t, env, prdA.ID, 2)
	addToCart(t, env, prdB.ID, 1)
	addToCart(t, env, prdC.ID, 3)

	var orders []order.Order
	if status := env.Do(t, http.MethodPost, "/orders", nil, &orders); status != http.StatusCreated {
		t.Fatalf("checking out: status %d", status)
	}

	if len(orders) != 2 {
		t.Fatalf("expected one order per shop (2), got %d", len(orders))
	}

	wantTotals := map[string]string{
		shp1.ID: "250",
		shp2.ID: "60",
	}
	wantItems := map[string]int{
		shp1.ID: 2,
		shp2.ID: 1,
	}

	for _, ord := range orders {
		want, ok := wantTotals[ord.ShopID]
		if !ok {
			t.Fatalf("order for unexpected shop[%s]", ord.ShopID)
		}
		delete(wantTotals, ord.ShopID)

		if !ord.TotalPrice.Equal(decimal.RequireFromString(want)) {
			t.Errorf("shop[%s] total: expected %s, got %s", ord.ShopID, want, ord.TotalPrice)
		}
		if len(ord.Items) != wantItems[ord.ShopID] {
			t.Errorf("shop[%s] items: expected %d, got %d", ord.ShopID, wantItems[ord.ShopID], len(ord.Items))
		}

		sum := decimal.Zero
		for _, it := range ord.Items {
			sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if !ord.TotalPrice.Equal(sum) {
			t.Errorf("shop[%s]: total %s does not match items sum %s", ord.ShopID, ord.TotalPrice, sum)
		}
	}
	if len(wantTotals) != 0 {
		t.Fatalf("missing orders for shops: %v", wantTotals)
	}

	var crt cart.Cart
	if status := env.Do(t, http.MethodGet, "/cart", nil, &crt); status != http.StatusOK {
		t.Fatalf("fetching cart: status %d", status)
	}
	if len(crt.Lines) != 0 {
		t.Fatalf("cart not cleared after checkout: %d lines left", len(crt.Lines))
	}

	var mine []order.Order
	if status := env.Do(t, http.MethodGet, "/orders", nil, &mine); status != http.StatusOK {
		t.Fatalf("listing orders: status %d", status)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders in history, got %d", len(mine))
	}

	// A second checkout on the now-empty cart creates nothing.
	if status := env.Do(t, http.MethodPost, "/orders", nil, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("empty-cart checkout: expected 422, got %d", status)
	}
}

func TestCheckoutPriceSnapshot(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_snapshot_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	prd, _ := createProduct(t, env, env.OwnerEmail, "volatile product", "100")

	env.Login(t, env.CustomerEmail)
	addToCart(t, env, prd.ID, 1)

	var orders []order.Order
	if status := env.Do(t, http.MethodPost, "/orders", nil, &orders); status != http.StatusCreated {
		t.Fatalf("checking out: status %d", status)
	}
	env.Logout(t)

	// The seller reprices after the sale.
	env.Login(t, env.OwnerEmail)
	newPrice := "9.99"
	up := map[string]any{"price": newPrice}
	if status := env.Do(t, http.MethodPut, "/products/"+prd.ID, up, nil); status != http.StatusOK {
		t.Fatalf("updating price: status %d", status)
	}
	env.Logout(t)

	env.Login(t, env.CustomerEmail)
	defer env.Logout(t)

	var mine []order.Order
	if status := env.Do(t, http.MethodGet, "/orders", nil, &mine); status != http.StatusOK {
		t.Fatalf("listing orders: status %d", status)
	}

	if len(mine) != 1 || len(mine[0].Items) != 1 {
		t.Fatalf("expected exactly one order with one item")
	}
	if got := mine[0].Items[0].UnitPrice; !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("snapshot price drifted: expected 100, got %s", got)
	}
}

// Two checkouts racing on the same cart: exactly one wins and creates
// the orders, the other finds the cart already empty.
func TestCheckoutConcurrent(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_concurrent_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	prd, _ := createProduct(t, env, env.OwnerEmail, "contended product", "10")

	env.Login(t, env.CustomerEmail)
	defer env.Logout(t)
	addToCart(t, env, prd.ID, 1)

	statuses := make([]int, 2)
	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			r, err := http.NewRequest(http.MethodPost, env.URL+"/orders", nil)
			if err != nil {
				return
			}
			w, err := env.Client().Do(r)
			if err != nil {
				return
			}
			w.Body.Close()
			statuses[i] = w.StatusCode
		}(i)
	}
	wg.Wait()

	var created, empty int
	for _, s := range statuses {
		switch s {
		case http.StatusCreated:
			created++
		case http.StatusUnprocessableEntity:
			empty++
		default:
			t.Fatalf("unexpected checkout status %d", s)
		}
	}
	if created != 1 || empty != 1 {
		t.Fatalf("expected one winner and one empty-cart loser, got created=%d empty=%d", created, empty)
	}

	var mine []order.Order
	if status := env.Do(t, http.MethodGet, "/orders", nil, &mine); status != http.StatusOK {
		t.Fatalf("listing orders: status %d", status)
	}
	if len(mine) != 1 {
		t.Fatalf("duplicate orders from concurrent checkout: got %d", len(mine))
	}
}

// A failure while writing one shop's order must roll back the whole
// checkout: no orders survive and the cart is untouched. The failure
// is provoked by a total that overflows the orders.total_price column.
func TestCheckoutAtomicity(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_atomicity_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	otherOwner := "owner2@atomicity.test"
	signup := map[string]string{
		"name": "second owner", "email": otherOwner, "password": env.Password, "role": "shopowner",
	}
	if status := env.Do(t, http.MethodPost, "/auth/signup", signup, nil); status != http.StatusCreated {
		t.Fatalf("signing up second owner: status %d", status)
	}
	env.Logout(t)

	cheap, _ := createProduct(t, env, env.OwnerEmail, "cheap product", "5")
	huge, _ := createProduct(t, env, otherOwner, "priciest product", "9999999999.99")

	env.Login(t, env.CustomerEmail)
	defer env.Logout(t)

	addToCart(t, env, cheap.ID, 1)
	addToCart(t, env, huge.ID, 1000)

	if status := env.Do(t, http.MethodPost, "/orders", nil, nil); status != http.StatusInternalServerError {
		t.Fatalf("overflowing checkout: expected 500, got %d", status)
	}

	var crt cart.Cart
	if status := env.Do(t, http.MethodGet, "/cart", nil, &crt); status != http.StatusOK {
		t.Fatalf("fetching cart: status %d", status)
	}
	if len(crt.Lines) != 2 {
		t.Fatalf("cart damaged by failed checkout: expected 2 lines, got %d", len(crt.Lines))
	}

	var mine []order.Order
	if status := env.Do(t, http.MethodGet, "/orders", nil, &mine); status != http.StatusOK {
		t.Fatalf("listing orders: status %d", status)
	}
	if len(mine) != 0 {
		t.Fatalf("partial orders survived a failed checkout: got %d", len(mine))
	}
}
