package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		var rn ReviewNew
		if err := web.Decode(w, r, &rn); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding review: %w", err))
		}

		if err := validate.Check(rn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		rev := Review{
			ID:         validate.GenerateID(),
			ProductID:  productID,
			CustomerID: clm.UserID,
			Rating:     rn.Rating,
			Content:    rn.Content,
			CreatedAt:  time.Now().UTC(),
		}

		if err := Create(ctx, db, rev); err != nil {
			// A review for a vanished product trips the FK.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("creating review: %w", err)
		}

		return web.Respond(ctx, w, rev, http.StatusCreated)
	}
}

func HandleListByProduct(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID := web.Param(r, "id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		reviews, err := FetchByProduct(ctx, db, productID)
		if err != nil {
			return fmt.Errorf("listing reviews: %w", err)
		}

		return web.Respond(ctx, w, reviews, http.StatusOK)
	}
}
