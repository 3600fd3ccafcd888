package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/product"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		lines, err := FetchLines(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching cart: %w", err)
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Subtotal())
		}

		return web.Respond(ctx, w, Cart{Lines: lines, Total: total}, http.StatusOK)
	}
}

func HandleCreateItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart item: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if in.Quantity == 0 {
			in.Quantity = 1
		}

		if _, err := product.Fetch(ctx, db, in.ProductID); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		now := time.Now().UTC()
		item := Item{
			CustomerID: clm.UserID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			AddedAt:    now,
			UpdatedAt:  now,
		}

		if err := Upsert(ctx, db, item); err != nil {
			return fmt.Errorf("adding cart item: %w", err)
		}

		return web.Respond(ctx, w, item, http.StatusCreated)
	}
}

func HandleUpdateItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "product_id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		var up ItemUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		item := Item{
			CustomerID: clm.UserID,
			ProductID:  productID,
			Quantity:   up.Quantity,
			UpdatedAt:  time.Now().UTC(),
		}

		if err := SetQuantity(ctx, db, item); err != nil {
			return fmt.Errorf("updating cart item: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "product_id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		if err := DeleteItem(ctx, db, clm.UserID, productID); err != nil {
			return fmt.Errorf("deleting cart item: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if err := Delete(ctx, db, clm.UserID); err != nil {
			return fmt.Errorf("flushing cart: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
