package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booking_backend/domain"
	"booking_backend/errors"
	application "booking_backend/service"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountStore struct {
	accounts map[string]*domain.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*domain.Account{}}
}

func (f *fakeAccountStore) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := f.accounts[account.Email]; exists {
		return nil, fmt.Errorf(errors.EmailAlreadyExist)
	}
	account.ID = primitive.NewObjectID()
	f.accounts[account.Email] = account
	return account, nil
}

func (f *fakeAccountStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, fmt.Errorf(errors.AccountNotFoundError)
}

func (f *fakeAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return f.accounts[email], nil
}

func newAuthRouter(t *testing.T, store domain.AccountStore) *mux.Router {
	t.Helper()

	codec := newTestCodec(t)
	service := application.NewAuthService(store, codec, bcrypt.MinCost, testTracer(), testLogger())
	handler := NewAuthHandler(service, codec, testTracer(), testLogger())

	router := mux.NewRouter()
	handler.Init(router)
	return router
}

func postJSON(t *testing.T, router *mux.Router, path string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	store := newFakeAccountStore()
	router := newAuthRouter(t, store)

	resp := postJSON(t, router, "/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored := store.accounts["alice@example.com"]
	if stored == nil {
		t.Fatal("account not stored")
	}
	if stored.Password == "secret" {
		t.Fatal("password stored in plaintext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	payload := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "secret"}
	if resp := postJSON(t, router, "/register", payload); resp.Code != http.StatusOK {
		t.Fatalf("first register failed with %d", resp.Code)
	}

	resp := postJSON(t, router, "/register", payload)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestRegisterRejectsMalformedPayload(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	resp := postJSON(t, router, "/register", map[string]string{"name": "Alice"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestLoginSetsTokenCookie(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())
	postJSON(t, router, "/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})

	resp := postJSON(t, router, "/login", map[string]string{
		"email": "alice@example.com", "password": "secret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	cookies := resp.Result().Cookies()
	var token string
	for _, cookie := range cookies {
		if cookie.Name == tokenCookieName {
			token = cookie.Value
		}
	}
	if token == "" {
		t.Fatal("login did not set token cookie")
	}

	claims, err := newTestCodec(t).Verify(token)
	if err != nil {
		t.Fatalf("cookie token does not verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongPasswordDoesNotSetCookie(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())
	postJSON(t, router, "/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})

	resp := postJSON(t, router, "/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "pass not ok") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("cookie set despite wrong password")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	resp := postJSON(t, router, "/login", map[string]string{
		"email": "nobody@example.com", "password": "secret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "not found") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("cookie set for unknown email")
	}
}

func TestProfileAnonymousReturnsNull(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if strings.TrimSpace(resp.Body.String()) != "null" {
		t.Fatalf("expected null body, got %s", resp.Body.String())
	}
}

func TestProfileInvalidTokenRejected(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "garbage"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestProfileReturnsCallerData(t *testing.T) {
	store := newFakeAccountStore()
	router := newAuthRouter(t, store)
	postJSON(t, router, "/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})

	account := store.accounts["alice@example.com"]
	cookie := sessionCookie(t, newTestCodec(t), account.ID, account.Email)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var profile domain.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("invalid profile body: %v", err)
	}
	if profile.Name != "Alice" || profile.Email != "alice@example.com" || profile.ID != account.ID {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newAuthRouter(t, newFakeAccountStore())

	resp := postJSON(t, router, "/logout", map[string]string{})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != tokenCookieName || cookies[0].Value != "" {
		t.Fatalf("expected cleared token cookie, got %+v", cookies)
	}
}
