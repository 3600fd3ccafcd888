package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/config"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/review"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		products, err := List(ctx, db, r.URL.Query().Get("q"))
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		return web.Respond(ctx, w, products, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		prd, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", id, err)
		}

		if prd.Images, err = FetchImages(ctx, db, id); err != nil {
			return fmt.Errorf("fetching images: %w", err)
		}

		shp, err := shop.Fetch(ctx, db, prd.ShopID)
		if err != nil {
			return fmt.Errorf("fetching shop of product[%s]: %w", id, err)
		}

		reviews, err := review.FetchByProduct(ctx, db, id)
		if err != nil {
			return fmt.Errorf("fetching reviews of product[%s]: %w", id, err)
		}

		det := Detail{
			Product: prd,
			Shop:    shp,
			Reviews: reviews,
		}

		return web.Respond(ctx, w, det, http.StatusOK)
	}
}

// HandleCreate accepts a multipart form so the product fields and its
// image files arrive in one request.
func HandleCreate(db *sqlx.DB, uploads config.Uploads) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := ownShop(ctx, db)
		if err != nil {
			return err
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing multipart form: %w", err))
		}

		pn, err := decodeForm(r)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding product form: %w", err))
		}

		if err := validate.Check(pn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		price, err := decimal.NewFromString(pn.Price)
		if err != nil || !price.IsPositive() {
			err := errors.New("price must be a positive decimal")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		now := time.Now().UTC()
		prd := Product{
			ID:           validate.GenerateID(),
			ShopID:       shp.ID,
			Name:         pn.Name,
			Description:  pn.Description,
			Price:        price,
			Quantity:     pn.Quantity,
			SizeOrWeight: pn.SizeOrWeight,
			ProductType:  pn.ProductType,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := Create(ctx, db, prd); err != nil {
			return fmt.Errorf("creating product: %w", err)
		}

		images, err := storeImages(ctx, db, r, uploads, prd.ID)
		if err != nil {
			return fmt.Errorf("storing product images: %w", err)
		}
		prd.Images = images

		return web.Respond(ctx, w, prd, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := ownShop(ctx, db)
		if err != nil {
			return err
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		prd, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", id, err)
		}

		if prd.ShopID != shp.ID {
			return weberr.Forbidden(errors.New("the product belongs to another shop"))
		}

		var up ProductUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding product update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if up.Name != nil {
			prd.Name = *up.Name
		}
		if up.Description != nil {
			prd.Description = *up.Description
		}
		if up.Price != nil {
			price, err := decimal.NewFromString(*up.Price)
			if err != nil || !price.IsPositive() {
				err := errors.New("price must be a positive decimal")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			prd.Price = price
		}
		if up.Quantity != nil {
			prd.Quantity = up.Quantity
		}
		if up.SizeOrWeight != nil {
			prd.SizeOrWeight = up.SizeOrWeight
		}
		if up.ProductType != nil {
			prd.ProductType = *up.ProductType
		}
		prd.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, prd); err != nil {
			return fmt.Errorf("updating product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, prd, http.StatusOK)
	}
}

// HandleInventory lists the caller's own products including stock, for
// the shop management screens.
func HandleInventory(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := ownShop(ctx, db)
		if err != nil {
			return err
		}

		products, err := FetchByShop(ctx, db, shp.ID)
		if err != nil {
			return fmt.Errorf("listing inventory: %w", err)
		}

		return web.Respond(ctx, w, products, http.StatusOK)
	}
}

func ownShop(ctx context.Context, db *sqlx.DB) (shop.Shop, error) {
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

func decodeForm(r *http.Request) (ProductNew, error) {
	pn := ProductNew{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		ProductType: r.FormValue("productType"),
	}

	if v := r.FormValue("quantity"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return ProductNew{}, fmt.Errorf("parsing quantity: %w", err)
		}
		pn.Quantity = &qty
	}

	if v := r.FormValue("sizeOrWeight"); v != "" {
		pn.SizeOrWeight = &v
	}

	return pn, nil
}
