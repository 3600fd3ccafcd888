package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
)

const (
	sessionUserID = "user_id"
	sessionRole   = "user_role"
	sessionState  = "oauth_state"
)

// LoadAndSave adapts the scs middleware to the error-returning handler
// type used across the API.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))
			sh.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

// Authenticate requires a logged-in session and stores its claims in
// the context for downstream handlers.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := sessionClaims(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Admin requires a logged-in administrator.
func Admin(session *scs.SessionManager) web.Middleware {
	return role(session, claims.RoleAdmin)
}

// ShopOwner requires a logged-in shop owner.
func ShopOwner(session *scs.SessionManager) web.Middleware {
	return role(session, claims.RoleShopOwner)
}

// Customer requires a logged-in customer.
func Customer(session *scs.SessionManager) web.Middleware {
	return role(session, claims.RoleCustomer)
}

func role(session *scs.SessionManager, want string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := sessionClaims(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			if clm.Role != want {
				return weberr.Forbidden(errors.New("the account role does not grant access to this resource"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

func sessionClaims(ctx context.Context, session *scs.SessionManager) (claims.Claims, bool) {
	id := session.GetString(ctx, sessionUserID)
	role := session.GetString(ctx, sessionRole)
	if id == "" || !claims.Valid(role) {
		return claims.Claims{}, false
	}

	return claims.Claims{UserID: id, Role: role}, true
}

func login(ctx context.Context, session *scs.SessionManager, clm claims.Claims) error {
	// A fresh token on privilege change prevents session fixation.
	if err := session.RenewToken(ctx); err != nil {
		return err
	}

	session.Put(ctx, sessionUserID, clm.UserID)
	session.Put(ctx, sessionRole, clm.Role)
	return nil
}
