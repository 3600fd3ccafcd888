package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
)

// HandleCheckout places one order per shop represented in the caller's
// cart and returns the created orders for the confirmation page.
func HandleCheckout(db *sqlx.DB, policy StockPolicy) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orders, err := Checkout(ctx, db, clm.UserID, policy)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("checking out cart of customer[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, orders, http.StatusCreated)
	}
}

func HandleListMine(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orders, err := FetchByCustomer(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

func HandleListByShop(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := callerShop(ctx, db)
		if err != nil {
			return err
		}

		orders, err := FetchByShop(ctx, db, shp.ID)
		if err != nil {
			return fmt.Errorf("listing shop orders: %w", err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := callerShop(ctx, db)
		if err != nil {
			return err
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing order id: %w", err))
		}

		var up StatusUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding status update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := UpdateStatus(ctx, db, id, shp.ID, up); err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("updating order[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func callerShop(ctx context.Context, db *sqlx.DB) (shop.Shop, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return shop.Shop{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	shp, err := shop.FetchByOwner(ctx, db, clm.UserID)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			return shop.Shop{}, weberr.NotFound(errors.New("the account has no shop yet"))
		}
		return shop.Shop{}, fmt.Errorf("fetching shop of caller: %w", err)
	}

	return shp, nil
}
