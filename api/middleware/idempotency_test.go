package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

func TestIdempotency_RequiresKeyOnPurchase(t *testing.T) {
	store := newFakeIdemStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an idempotency key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/membership/purchase", strings.NewReader(`{"card_id":"abc"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Success || payload.Error != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newFakeIdemStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"m-1"}}`))
	}))

	body := `{"card_id":"abc","payment_method":"alipay"}`
	var responses []*httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/membership/purchase", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "retry-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		responses = append(responses, rec)
	}

	if calls != 1 {
		t.Fatalf("expected a single handler invocation, got %d", calls)
	}
	for i, rec := range responses {
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, rec.Code)
		}
	}
	if responses[0].Body.String() != responses[1].Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", responses[0].Body.String(), responses[1].Body.String())
	}
	if ct := responses[1].Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected replayed content type, got %q", ct)
	}
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdemStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/rights-cards/purchase", strings.NewReader(`{"card_id":"abc"}`))
	first.Header.Set("Idempotency-Key", "retry-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/rights-cards/purchase", strings.NewReader(`{"card_id":"other"}`))
	second.Header.Set("Idempotency-Key", "retry-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, second)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code: %s", payload.Error)
	}
}

func TestIdempotency_ScopesKeysPerUser(t *testing.T) {
	store := newFakeIdemStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for _, userID := range []string{"user-a", "user-b"} {
		req := httptest.NewRequest(http.MethodPost, "/api/membership/purchase", strings.NewReader(`{"card_id":"abc"}`))
		req = req.WithContext(WithUserID(req.Context(), userID))
		req.Header.Set("Idempotency-Key", "shared-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("user %s: expected 201, got %d", userID, rec.Code)
		}
	}

	if calls != 2 {
		t.Fatalf("expected both users to reach the handler, got %d calls", calls)
	}
}

func TestIdempotency_IgnoresUnmatchedRoutes(t *testing.T) {
	store := newFakeIdemStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/consultations/", strings.NewReader(`{"subject":"hi"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through 200, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run, got %d calls", calls)
	}
}

func TestIdempotency_MatchesUsageRoutesByID(t *testing.T) {
	store := newFakeIdemStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/membership/7a1d3f60-1111-2222-3333-444455556666/use", strings.NewReader(`{"service_type":"cleaning"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected key requirement on usage route, got %d", rec.Code)
	}
}

type fakeIdemStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: map[string]string{}}
}

func (f *fakeIdemStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdemStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (f *fakeIdemStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}
