package test

import (
	"net/http"
	"testing"

	"github.com/hdtran/marketplace/core/user"
)

func TestAuth(t *testing.T) {
	env, err := NewTestEnv(t, "auth_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	// Nobody signs themselves up as an administrator.
	evil := map[string]string{
		"name": "mallory", "email": "mallory@auth.test", "password": env.Password, "role": "admin",
	}
	if status := env.Do(t, http.MethodPost, "/auth/signup", evil, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("admin signup: expected 422, got %d", status)
	}

	// Free-text roles are refused outright.
	evil["role"] = "superuser"
	if status := env.Do(t, http.MethodPost, "/auth/signup", evil, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("bogus role signup: expected 422, got %d", status)
	}

	// Duplicate email conflicts.
	dup := map[string]string{
		"name": "copycat", "email": env.CustomerEmail, "password": env.Password, "role": "customer",
	}
	if status := env.Do(t, http.MethodPost, "/auth/signup", dup, nil); status != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", status)
	}

	wrong := map[string]string{"email": env.CustomerEmail, "password": "not-the-password"}
	if status := env.Do(t, http.MethodPost, "/auth/login", wrong, nil); status != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", status)
	}

	// Customers are kept away from admin resources.
	env.Login(t, env.CustomerEmail)
	if status := env.Do(t, http.MethodGet, "/users", nil, nil); status != http.StatusForbidden {
		t.Fatalf("customer listing users: expected 403, got %d", status)
	}
	env.Logout(t)
}

func TestAccountLocking(t *testing.T) {
	env, err := NewTestEnv(t, "locking_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	env.Login(t, env.AdminEmail)

	var users []user.User
	if status := env.Do(t, http.MethodGet, "/users", nil, &users); status != http.StatusOK {
		t.Fatalf("listing users: status %d", status)
	}

	var customerID, adminID string
	for _, u := range users {
		switch u.Email {
		case env.CustomerEmail:
			customerID = u.ID
		case env.AdminEmail:
			adminID = u.ID
		}
	}
	if customerID == "" || adminID == "" {
		t.Fatal("seeded users missing from listing")
	}

	// Administrators cannot be locked out.
	if status := env.Do(t, http.MethodPost, "/users/"+adminID+"/lock", nil, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("locking an admin: expected 422, got %d", status)
	}

	if status := env.Do(t, http.MethodPost, "/users/"+customerID+"/lock", nil, nil); status != http.StatusNoContent {
		t.Fatalf("locking customer: status %d", status)
	}
	env.Logout(t)

	creds := map[string]string{"email": env.CustomerEmail, "password": env.Password}
	if status := env.Do(t, http.MethodPost, "/auth/login", creds, nil); status != http.StatusForbidden {
		t.Fatalf("locked login: expected 403, got %d", status)
	}

	env.Login(t, env.AdminEmail)
	if status := env.Do(t, http.MethodPost, "/users/"+customerID+"/unlock", nil, nil); status != http.StatusNoContent {
		t.Fatalf("unlocking customer: status %d", status)
	}
	env.Logout(t)

	if status := env.Do(t, http.MethodPost, "/auth/login", creds, nil); status != http.StatusOK {
		t.Fatalf("unlocked login: expected 200, got %d", status)
	}
	env.Logout(t)
}
