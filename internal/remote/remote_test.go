package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/grocerymate/internal/model"
)

type memJournal struct {
	mu      sync.Mutex
	entries []model.APILogEntry
}

func (j *memJournal) AppendAPILog(e model.APILogEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func TestSimulatedEchoesPayload(t *testing.T) {
	j := &memJournal{}
	s := NewSimulated(WithDelay(0, 0), WithFailureRate(0), WithJournal(j))

	payload := map[string]string{"name": "Milk"}
	env := s.Call(context.Background(), Request{Endpoint: "/api/users/u1/items", Method: "POST", Payload: payload})
	if !env.Success {
		t.Fatalf("expected success, got %+v", env)
	}

	var got map[string]string
	if err := env.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["name"] != "Milk" {
		t.Errorf("echo = %v, want name=Milk", got)
	}

	if j.len() != 1 {
		t.Fatalf("expected 1 journal entry, got %d", j.len())
	}
	if j.entries[0].Endpoint != "/api/users/u1/items" || j.entries[0].Method != "POST" {
		t.Errorf("entry = %+v", j.entries[0])
	}
}

func TestSimulatedAlwaysFails(t *testing.T) {
	j := &memJournal{}
	s := NewSimulated(WithDelay(0, 0), WithFailureRate(1), WithJournal(j))

	env := s.Call(context.Background(), Request{Endpoint: "/api/auth/login", Method: "POST"})
	if env.Success {
		t.Fatal("expected failure")
	}
	if env.Error != NetworkErrorMessage {
		t.Errorf("error = %q, want %q", env.Error, NetworkErrorMessage)
	}
	var rerr *Error
	if !errors.As(env.Err(), &rerr) {
		t.Errorf("Err() = %T, want *Error", env.Err())
	}
	if j.len() != 0 {
		t.Errorf("failed calls must not be journaled, got %d entries", j.len())
	}
}

func TestSimulatedFailureShare(t *testing.T) {
	s := NewSimulated(WithDelay(0, 0), WithRand(rand.New(rand.NewPCG(1, 2))))

	failures := 0
	for i := 0; i < 1000; i++ {
		if !s.Call(context.Background(), Request{Endpoint: "/x", Method: "GET"}).Success {
			failures++
		}
	}
	if failures < 50 || failures > 150 {
		t.Errorf("failures = %d of 1000, want roughly 100", failures)
	}
}

func TestSimulatedContextCancelled(t *testing.T) {
	s := NewSimulated(WithDelay(time.Hour, time.Hour), WithFailureRate(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := s.Call(ctx, Request{Endpoint: "/x", Method: "GET"})
	if env.Success {
		t.Fatal("expected failure on cancelled context")
	}
}

func TestHTTPNormalizesResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		success bool
		errMsg  string
		data    string
	}{
		{"envelope passes through", 200, `{"success":true,"data":[1,2]}`, true, "", `[1,2]`},
		{"failed envelope", 200, `{"success":false,"error":"nope"}`, false, "nope", ""},
		{"bare array becomes data", 200, `[{"id":"a"}]`, true, "", `[{"id":"a"}]`},
		{"bare object becomes data", 201, `{"id":"a"}`, true, "", `{"id":"a"}`},
		{"empty body", 204, ``, true, "", ""},
		{"error body", 400, `{"error":"bad input"}`, false, "bad input", ""},
		{"plain error status", 500, `oops`, false, "status 500", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := normalize(tt.status, []byte(tt.body))
			if env.Success != tt.success {
				t.Errorf("success = %v, want %v", env.Success, tt.success)
			}
			if env.Error != tt.errMsg {
				t.Errorf("error = %q, want %q", env.Error, tt.errMsg)
			}
			if string(env.Data) != tt.data {
				t.Errorf("data = %s, want %s", env.Data, tt.data)
			}
		})
	}
}

func TestHTTPCall(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"item-1","name":"Milk"}]`))
	}))
	defer server.Close()

	j := &memJournal{}
	h := NewHTTP(server.URL+"/", "secret", WithHTTPClient(server.Client()), WithHTTPJournal(j))
	env := h.Call(context.Background(), Request{Endpoint: "/api/users/u1/items", Method: "POST", Payload: map[string]string{"name": "Milk"}})

	if !env.Success {
		t.Fatalf("expected success, got %+v", env)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotMethod != "POST" || gotPath != "/api/users/u1/items" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody["name"] != "Milk" {
		t.Errorf("body = %v", gotBody)
	}
	if j.len() != 1 {
		t.Errorf("expected journal entry, got %d", j.len())
	}
}

func TestHTTPUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	h := NewHTTP(url, "")
	env := h.Call(context.Background(), Request{Endpoint: "/api/auth/logout", Method: "POST"})
	if env.Success || env.Error != NetworkErrorMessage {
		t.Errorf("env = %+v, want network failure", env)
	}
}

type scriptedFacade struct {
	mu      sync.Mutex
	results []Envelope
	calls   int
}

func (f *scriptedFacade) Call(ctx context.Context, req Request) Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	env := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return env
}

func TestRetryingRecovers(t *testing.T) {
	f := &scriptedFacade{results: []Envelope{failure("a"), failure("b"), {Success: true}}}
	r := NewRetrying(f, 3, time.Millisecond)

	env := r.Call(context.Background(), Request{Endpoint: "/x", Method: "GET"})
	if !env.Success {
		t.Fatalf("expected eventual success, got %+v", env)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
}

func TestRetryingGivesUp(t *testing.T) {
	f := &scriptedFacade{results: []Envelope{failure("down")}}
	r := NewRetrying(f, 2, time.Millisecond)

	env := r.Call(context.Background(), Request{Endpoint: "/x", Method: "GET"})
	if env.Success {
		t.Fatal("expected failure")
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", f.calls)
	}
	if env.Error != "down" {
		t.Errorf("error = %q, want last failure", env.Error)
	}
}

func TestRetryingDisabled(t *testing.T) {
	f := &scriptedFacade{results: []Envelope{failure("down")}}
	r := NewRetrying(f, 0, 0)

	r.Call(context.Background(), Request{Endpoint: "/x", Method: "GET"})
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestClientRoutes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path})
		mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/u1/items":
			w.Write([]byte(`{"success":true,"data":[{"id":"item-1","name":"Milk","category":"Dairy","completed":false,"price":2.5,"user_id":"u1"}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/u1/friends":
			w.Write([]byte(`[{"id":"u2","username":"bob","avatarUrl":""}]`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	c := NewClient(NewHTTP(server.URL, "", WithHTTPClient(server.Client())))
	ctx := context.Background()
	item := model.GroceryItem{ID: "item-1", Name: "Milk", Category: model.CategoryDairy, UserID: "u1"}

	if err := c.RegisterUser(ctx, model.User{ID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	c.Login(ctx, "u1", "a@example.com")
	c.Logout(ctx, "u1")
	c.AddItem(ctx, item)
	c.UpdateItem(ctx, item)
	c.UpdateItemStatus(ctx, "u1", "item-1", true)
	c.DeleteItem(ctx, "u1", "item-1")
	c.AddFriend(ctx, "u1", model.Friend{ID: "u2"})
	c.RemoveFriend(ctx, "u1", "u2")

	items, err := c.Items(ctx, "u1")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Errorf("items = %+v", items)
	}
	friends, err := c.Friends(ctx, "u1")
	if err != nil {
		t.Fatalf("friends: %v", err)
	}
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Errorf("friends = %+v", friends)
	}

	want := []call{
		{"POST", "/api/users"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/auth/logout"},
		{"POST", "/api/users/u1/items"},
		{"PUT", "/api/users/u1/items/item-1"},
		{"PUT", "/api/users/u1/items/item-1/status"},
		{"DELETE", "/api/users/u1/items/item-1"},
		{"POST", "/api/users/u1/friends"},
		{"DELETE", "/api/users/u1/friends/u2"},
		{"GET", "/api/users/u1/items"},
		{"GET", "/api/users/u1/friends"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestClientWrapsRemoteError(t *testing.T) {
	c := NewClient(NewSimulated(WithDelay(0, 0), WithFailureRate(1)))

	err := c.Logout(context.Background(), "u1")
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *Error", err)
	}
}
