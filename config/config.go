package config

import "time"

// Config collects every tunable of the server. Values are parsed from
// the environment (and flags) by ardanlabs/conf with the MARKET prefix.
type Config struct {
	Web     Web
	DB      DB
	Cors    Cors
	Auth    Auth
	Oauth   Oauth
	Uploads Uploads
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost:5432"`
	Name       string `conf:"default:marketplace"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Auth struct {
	// CheckStock turns on quantity validation at checkout. The default
	// keeps the historical behaviour of treating stock as informational.
	CheckStock bool `conf:"default:false"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:/"`
	Google           Provider
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string
}

type Uploads struct {
	// Dir is where product image files land; the path stored on the
	// product row is relative to it.
	Dir         string `conf:"default:uploads/products"`
	Placeholder string `conf:"default:/images/placeholder.jpg"`
}

type Rate struct {
	LoginBurst    int           `conf:"default:5"`
	LoginInterval time.Duration `conf:"default:1s"`
	Expiry        time.Duration `conf:"default:30m"`
}
