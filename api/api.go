package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/hdtran/marketplace/api/middleware"
	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/config"
	"github.com/hdtran/marketplace/core/auth"
	"github.com/hdtran/marketplace/core/cart"
	"github.com/hdtran/marketplace/core/chat"
	"github.com/hdtran/marketplace/core/order"
	"github.com/hdtran/marketplace/core/product"
	"github.com/hdtran/marketplace/core/review"
	"github.com/hdtran/marketplace/core/shop"
	"github.com/hdtran/marketplace/core/user"
	"github.com/hdtran/marketplace/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	LoginLimiter     *rate.Limiter
	Uploads          config.Uploads
	StockPolicy      order.StockPolicy
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)
	owner := auth.ShopOwner(cfg.Session)
	customer := auth.Customer(cfg.Session)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session, cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.DB, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users", user.HandleList(cfg.DB), admin)
	a.Handle(http.MethodPost, "/users", user.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPost, "/users/{id}/lock", user.HandleLock(cfg.DB), admin)
	a.Handle(http.MethodPost, "/users/{id}/unlock", user.HandleUnlock(cfg.DB), admin)
	a.Handle(http.MethodGet, "/admin/dashboard", HandleAdminDashboard(cfg.DB), admin)

	a.Handle(http.MethodGet, "/products/{id}/reviews", review.HandleListByProduct(cfg.DB))
	a.Handle(http.MethodPost, "/products/{id}/reviews", review.HandleCreate(cfg.DB), customer)
	a.Handle(http.MethodGet, "/products/{id}/chat", chat.HandleListByProduct(cfg.DB), authen)
	a.Handle(http.MethodPost, "/products/{id}/chat", chat.HandleSend(cfg.DB), authen)
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(cfg.DB, cfg.Uploads), owner)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(cfg.DB), owner)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.DB), customer)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.DB), customer)
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(cfg.DB), customer)
	a.Handle(http.MethodPut, "/cart/items/{product_id}", cart.HandleUpdateItem(cfg.DB), customer)
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(cfg.DB), customer)

	a.Handle(http.MethodPost, "/orders", order.HandleCheckout(cfg.DB, cfg.StockPolicy), customer)
	a.Handle(http.MethodGet, "/orders", order.HandleListMine(cfg.DB), customer)

	a.Handle(http.MethodGet, "/shop", shop.HandleShow(cfg.DB), owner)
	a.Handle(http.MethodPut, "/shop", shop.HandleUpdate(cfg.DB), owner)
	a.Handle(http.MethodGet, "/shop/dashboard", shop.HandleDashboard(cfg.DB), owner)
	a.Handle(http.MethodGet, "/shop/report", shop.HandleReport(cfg.DB), owner)
	a.Handle(http.MethodGet, "/shop/inventory", product.HandleInventory(cfg.DB), owner)
	a.Handle(http.MethodGet, "/shop/chat", chat.HandleInbox(cfg.DB), owner)
	a.Handle(http.MethodGet, "/shop/orders", order.HandleListByShop(cfg.DB), owner)
	a.Handle(http.MethodPut, "/shop/orders/{id}/status", order.HandleUpdateStatus(cfg.DB), owner)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
