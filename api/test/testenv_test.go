package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/hdtran/marketplace/api"
	"github.com/hdtran/marketplace/config"
	"github.com/hdtran/marketplace/core/claims"
	"github.com/hdtran/marketplace/core/user"
	"github.com/hdtran/marketplace/database"
	"github.com/hdtran/marketplace/rate"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var pgHost string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not connect to docker: %v\n", err)
		os.Exit(1)
	}

	res, err := pool.Run("postgres", "15-alpine", []string{
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=postgres",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres: %v\n", err)
		os.Exit(1)
	}

	pgHost = res.GetHostPort("5432/tcp")

	if err := pool.Retry(func() error {
		db, err := database.Open(config.DB{
			User: "postgres", Password: "postgres", Host: pgHost, Name: "postgres", DisableTLS: true,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return database.StatusCheck(ctx, db)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "postgres never became ready: %v\n", err)
		pool.Purge(res)
		os.Exit(1)
	}

	code := m.Run()

	pool.Purge(res)
	os.Exit(code)
}

// TestEnv is one fully wired API server on a private database, with a
// seeded admin, shop owner and customer account.
type TestEnv struct {
	DB     *sqlx.DB
	Server *httptest.Server
	URL    string

	AdminEmail    string
	OwnerEmail    string
	CustomerEmail string
	Password      string

	client *http.Client
}

// NewTestEnv creates a database named after the test, migrates it and
// starts an API server on top.
func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	root, err := database.Open(config.DB{
		User: "postgres", Password: "postgres", Host: pgHost, Name: "postgres", DisableTLS: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening root db: %w", err)
	}
	defer root.Close()

	if _, err := root.Exec("CREATE DATABASE " + name); err != nil {
		return nil, fmt.Errorf("creating test database: %w", err)
	}

	db, err := database.Open(config.DB{
		User: "postgres", Password: "postgres", Host: pgHost, Name: name, DisableTLS: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening test db: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating test db: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	mux := api.APIMux(api.APIConfig{
		Log:          logger,
		DB:           db,
		Session:      session,
		LoginLimiter: rate.NewLimiter(1000, time.Microsecond, time.Hour),
		Uploads:      config.Uploads{Dir: t.TempDir(), Placeholder: "/images/placeholder.jpg"},
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { db.Close() })

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	env := &TestEnv{
		DB:            db,
		Server:        srv,
		URL:           srv.URL,
		AdminEmail:    "admin@" + name + ".test",
		OwnerEmail:    "owner@" + name + ".test",
		CustomerEmail: "customer@" + name + ".test",
		Password:      "gophers-12345",
		client:        &http.Client{Jar: jar},
	}

	for email, role := range map[string]string{
		env.AdminEmail:    claims.RoleAdmin,
		env.OwnerEmail:    claims.RoleShopOwner,
		env.CustomerEmail: claims.RoleCustomer,
	} {
		if err := env.seedUser(email, role); err != nil {
			return nil, err
		}
	}

	return env, nil
}

func (e *TestEnv) seedUser(email string, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	now := time.Now().UTC()
	usr := user.User{
		ID:           validate.GenerateID(),
		Name:         role + " " + email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return user.Create(ctx, e.DB, usr)
}

// Client returns the cookie-aware client shared by the env helpers.
func (e *TestEnv) Client() *http.Client { return e.client }

func (e *TestEnv) Login(t *testing.T, email string) {
	t.Helper()

	body := map[string]string{"email": email, "password": e.Password}
	if status := e.Do(t, http.MethodPost, "/auth/login", body, nil); status != http.StatusOK {
		t.Fatalf("login as %s: status %d", email, status)
	}
}

func (e *TestEnv) Logout(t *testing.T) {
	t.Helper()

	if status := e.Do(t, http.MethodPost, "/auth/logout", nil, nil); status != http.StatusNoContent {
		t.Fatalf("logout: status %d", status)
	}
}

// Do sends a JSON request through the session-aware client, decoding
// the response into out when it is non-nil.
func (e *TestEnv) Do(t *testing.T, method string, path string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, e.URL+path, rd)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := e.client.Do(r)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding response of %s %s: %v", method, path, err)
		}
	}

	return w.StatusCode
}

// PostProduct creates a product through the multipart endpoint without
// attaching image files.
func (e *TestEnv) PostProduct(t *testing.T, fields map[string]string, out any) int {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing form field %s: %v", k, err)
		}
	}
	mw.Close()

	r, err := http.NewRequest(http.MethodPost, e.URL+"/products", &buf)
	if err != nil {
		t.Fatalf("building product request: %v", err)
	}
	r.Header.Set("Content-Type", mw.FormDataContentType())

	w, err := e.client.Do(r)
	if err != nil {
		t.Fatalf("posting product: %v", err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding product response: %v", err)
		}
	}

	return w.StatusCode
}
