package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/core/order"
	"github.com/hdtran/marketplace/core/product"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/hdtran/marketplace/core/user"
	"github.com/jmoiron/sqlx"
)

type adminDashboard struct {
	TotalUsers    int `json:"totalUsers"`
	TotalShops    int `json:"totalShops"`
	TotalProducts int `json:"totalProducts"`
	TotalOrders   int `json:"totalOrders"`
}

func HandleAdminDashboard(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var dash adminDashboard
		var err error

		if dash.TotalUsers, err = user.Count(ctx, db); err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		if dash.TotalShops, err = shop.Count(ctx, db); err != nil {
			return fmt.Errorf("counting shops: %w", err)
		}
		if dash.TotalProducts, err = product.Count(ctx, db); err != nil {
			return fmt.Errorf("counting products: %w", err)
		}
		if dash.TotalOrders, err = order.Count(ctx, db); err != nil {
			return fmt.Errorf("counting orders: %w", err)
		}

		return web.Respond(ctx, w, dash, http.StatusOK)
	}
}
