package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hdtran/marketplace/api/web"
	"github.com/hdtran/marketplace/api/weberr"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/user"
	"github.com/hdtran/marketplace/random"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/oauth2"
)

type Provider struct {
	Name     string
	Config   *oauth2.Config
	Verifier *oidc.IDTokenVerifier
}

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// MakeProviders runs OIDC discovery for each configured provider and
// builds the oauth2 exchange configs.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider, len(cfgs))

	for _, cfg := range cfgs {
		p, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider %q: %w", cfg.Name, err)
		}

		provs[cfg.Name] = Provider{
			Name: cfg.Name,
			Config: &oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				RedirectURL:  cfg.RedirectURL,
				Endpoint:     p.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			Verifier: p.Verifier(&oidc.Config{ClientID: cfg.Client}),
		}
	}

	return provs, nil
}

func HandleOauthLogin(session *scs.SessionManager, providers map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		prov, ok := providers[web.Param(r, "provider")]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", web.Param(r, "provider")))
		}

		state := random.String(32)
		session.Put(ctx, sessionState, state)

		http.Redirect(w, r, prov.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
		return nil
	}
}

func HandleOauthCallback(db *sqlx.DB, session *scs.SessionManager, providers map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		prov, ok := providers[web.Param(r, "provider")]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", web.Param(r, "provider")))
		}

		state := session.PopString(ctx, sessionState)
		if state == "" || state != r.URL.Query().Get("state") {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		tok, err := prov.Config.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			return fmt.Errorf("exchanging oauth code: %w", err)
		}

		rawID, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.BadRequest(errors.New("oauth token carries no id_token"))
		}

		idTok, err := prov.Verifier.Verify(ctx, rawID)
		if err != nil {
			return fmt.Errorf("verifying id token: %w", err)
		}

		var profile struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idTok.Claims(&profile); err != nil {
			return fmt.Errorf("decoding id token claims: %w", err)
		}

		usr, err := user.FetchByEmail(ctx, db, profile.Email)
		if errors.Is(err, user.ErrNotFound) {
			// First login through this provider creates a customer
			// account without a usable local password.
			now := time.Now().UTC()
			usr = user.User{
				ID:           validate.GenerateID(),
				Name:         profile.Name,
				Email:        profile.Email,
				PasswordHash: []byte{},
				Role:         claims.RoleCustomer,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := user.Create(ctx, db, usr); err != nil {
				return fmt.Errorf("creating oauth user: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("fetching oauth user: %w", err)
		}

		if usr.Locked(time.Now().UTC()) {
			return weberr.Forbidden(errors.New("the account is locked"))
		}

		clm := claims.Claims{UserID: usr.ID, Role: usr.Role}
		if err := login(ctx, session, clm); err != nil {
			return fmt.Errorf("writing login session: %w", err)
		}

		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return nil
	}
}
