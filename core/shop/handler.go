package shop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/user"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
)

// HandleShow returns the caller's shop, creating the profile on first
// access with a default name derived from the owner's account.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := forOwner(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, shp, http.StatusOK)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := forOwner(ctx, db)
		if err != nil {
			return err
		}

		var up ShopUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding shop update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if up.Name != nil {
			shp.Name = *up.Name
		}
		if up.Address != nil {
			shp.Address = *up.Address
		}
		if up.Phone != nil {
			shp.Phone = *up.Phone
		}
		shp.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, shp); err != nil {
			return fmt.Errorf("updating shop: %w", err)
		}

		return web.Respond(ctx, w, shp, http.StatusOK)
	}
}

func HandleDashboard(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := forOwner(ctx, db)
		if err != nil {
			return err
		}

		dash, err := FetchStats(ctx, db, shp.ID)
		if err != nil {
			return fmt.Errorf("fetching dashboard: %w", err)
		}
		dash.Shop = shp

		return web.Respond(ctx, w, dash, http.StatusOK)
	}
}

func HandleReport(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		shp, err := forOwner(ctx, db)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		year, err := intQuery(r, "year", now.Year())
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing year: %w", err))
		}
		month, err := intQuery(r, "month", 0)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing month: %w", err))
		}
		if month < 0 || month > 12 {
			return weberr.BadRequest(errors.New("month must be between 1 and 12"))
		}

		rep, err := FetchReport(ctx, db, shp.ID, year, month)
		if err != nil {
			return fmt.Errorf("fetching report: %w", err)
		}

		return web.Respond(ctx, w, rep, http.StatusOK)
	}
}

// forOwner resolves (and lazily creates) the shop of the calling user.
func forOwner(ctx context.Context, db *sqlx.DB) (Shop, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return Shop{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	usr, err := user.Fetch(ctx, db, clm.UserID)
	if err != nil {
		return Shop{}, fmt.Errorf("fetching shop owner: %w", err)
	}

	now := time.Now().UTC()
	shp, err := Upsert(ctx, db, Shop{
		ID:        validate.GenerateID(),
		UserID:    usr.ID,
		Name:      "Shop of " + usr.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Shop{}, fmt.Errorf("resolving shop of user[%s]: %w", usr.ID, err)
	}

	return shp, nil
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
