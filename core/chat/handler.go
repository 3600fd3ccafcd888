package chat

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
	"github.com/hdtran/marketplace/core/shop"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
)

// HandleSend posts a message on a product's conversation. Customers
// open the thread; the owning shop replies addressing the customer.
func HandleSend(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		var mn struct {
			MessageNew
			CustomerID string `json:"customerId" validate:"omitempty,uuid4"`
		}
		if err := web.Decode(w, r, &mn); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding message: %w", err))
		}

		if err := validate.Check(mn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		prd, err := product.Fetch(ctx, db, productID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", productID, err)
		}

		shp, err := shop.Fetch(ctx, db, prd.ShopID)
		if err != nil {
			return fmt.Errorf("fetching shop of product[%s]: %w", productID, err)
		}

		msg := Message{
			ID:          validate.GenerateID(),
			ProductID:   productID,
			ShopOwnerID: shp.UserID,
			Message:     mn.Message,
			SentAt:      time.Now().UTC(),
		}

		switch {
		case claims.IsCustomer(ctx):
			msg.Sender = SenderCustomer
			msg.CustomerID = clm.UserID

		case clm.UserID == shp.UserID:
			if mn.CustomerID == "" {
				return weberr.BadRequest(errors.New("a shop reply must address a customer"))
			}
			msg.Sender = SenderShop
			msg.CustomerID = mn.CustomerID

		default:
			return weberr.Forbidden(errors.New("only the customer or the owning shop may post here"))
		}

		if err := Create(ctx, db, msg); err != nil {
			return fmt.Errorf("creating chat message: %w", err)
		}

		return web.Respond(ctx, w, msg, http.StatusCreated)
	}
}

func HandleListByProduct(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID := web.Param(r, "id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		messages, err := FetchByProduct(ctx, db, productID)
		if err != nil {
			return fmt.Errorf("listing product messages: %w", err)
		}

		return web.Respond(ctx, w, messages, http.StatusOK)
	}
}

func HandleInbox(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		messages, err := FetchByOwner(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing inbox: %w", err)
		}

		return web.Respond(ctx, w, messages, http.StatusOK)
	}
}
