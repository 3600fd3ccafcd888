package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin     = "admin"
	RoleShopOwner = "shopowner"
	RoleCustomer  = "customer"
)

// Valid reports whether role belongs to the closed set of account
// roles. Account creation validates against this set; the admin role is
// only assignable by another admin, never from signup input.
func Valid(role string) bool {
	switch role {
	case RoleAdmin, RoleShopOwner, RoleCustomer:
		return true
	}
	return false
}

type Claims struct {
	UserID string
	Role   string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

func IsAdmin(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.Role == RoleAdmin
}

func IsShopOwner(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.Role == RoleShopOwner
}

func IsCustomer(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.Role == RoleCustomer
}

func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.UserID == id
}
