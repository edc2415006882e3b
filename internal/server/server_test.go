package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/grocerymate/internal/config"
	"github.com/dukerupert/grocerymate/internal/database"
	"github.com/dukerupert/grocerymate/internal/remote"
)

func setupServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	facade := remote.NewSimulated(remote.WithDelay(0, 0), remote.WithFailureRate(0))
	srv, err := New(db, cfg, nil, WithFacade(facade), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(srv.Groceries().Wait)
	return srv.Router()
}

func request(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestHealth(t *testing.T) {
	h := setupServer(t, &config.Config{})
	rec := request(t, h, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProtectedRoutesRequireUser(t *testing.T) {
	h := setupServer(t, &config.Config{})

	routes := []struct{ method, path string }{
		{"GET", "/api/items"},
		{"POST", "/api/items"},
		{"POST", "/api/items/abc/toggle"},
		{"POST", "/api/sync"},
		{"GET", "/api/friends"},
		{"POST", "/api/logout"},
		{"GET", "/api/logs"},
		{"POST", "/api/backup"},
		{"GET", "/api/backups"},
	}
	for _, rt := range routes {
		rec := request(t, h, rt.method, rt.path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", rt.method, rt.path, rec.Code)
		}
	}
}

func TestSignedInFlow(t *testing.T) {
	h := setupServer(t, &config.Config{})

	rec := request(t, h, "POST", "/api/login", `{"email":"demo@example.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	rec = request(t, h, "POST", "/api/items", `{"name":"Bananas","price":1.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var item struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatal(err)
	}
	if item.Category != "Produce" {
		t.Errorf("category = %q, want Produce", item.Category)
	}

	rec = request(t, h, "GET", "/api/items", "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("Bananas")) {
		t.Errorf("list: %d %s", rec.Code, rec.Body.String())
	}

	rec = request(t, h, "POST", "/api/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: %d", rec.Code)
	}
	rec = request(t, h, "GET", "/api/items", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("after logout: %d", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	h := setupServer(t, &config.Config{LoginRateLimit: 2, LoginRateWindow: time.Minute})

	body := `{"email":"demo@example.com","password":"wrong-password"}`
	for i := range 2 {
		rec := request(t, h, "POST", "/api/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}
	rec := request(t, h, "POST", "/api/login", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	// Sign-up is limited separately.
	rec = request(t, h, "POST", "/api/signup", `{"username":"ana","email":"ana@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("signup: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBackupRoutesWithoutStorage(t *testing.T) {
	h := setupServer(t, &config.Config{})

	rec := request(t, h, "GET", "/api/backup", "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"disabled"`)) {
		t.Errorf("status: %d %s", rec.Code, rec.Body.String())
	}

	rec = request(t, h, "POST", "/api/login", `{"email":"demo@example.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	rec = request(t, h, "POST", "/api/backup", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("run: %d", rec.Code)
	}
	rec = request(t, h, "GET", "/api/backups", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("list: %d", rec.Code)
	}
}
