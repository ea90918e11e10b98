package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelin/recordkeep/internal/handler"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	identity, records := newTestServices(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, identity, records, false)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func registerAndToken(t *testing.T, mux *http.ServeMux, email string) string {
	t.Helper()
	w := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the register response")
	}
	return token
}

func TestAuthFlow(t *testing.T) {
	mux := newTestMux(t)

	token := registerAndToken(t, mux, "flow@example.com")

	// Registering the same email again conflicts.
	w := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "flow@example.com",
		"password": "secret2",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}

	// The registration token works on protected routes.
	w = doJSON(t, mux, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user["email"] != "flow@example.com" {
		t.Fatalf("expected email flow@example.com, got %v", user["email"])
	}

	// Login issues a second, distinct token.
	w = doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	loginToken, _ := decodeBody(t, w)["token"].(string)
	if loginToken == "" || loginToken == token {
		t.Fatal("expected a fresh token from login")
	}

	// Wrong password and unknown email fail identically.
	for _, creds := range []map[string]string{
		{"email": "flow@example.com", "password": "wrong"},
		{"email": "ghost@example.com", "password": "secret1"},
	} {
		w = doJSON(t, mux, http.MethodPost, "/api/auth/login", "", creds)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("login %v: expected 401, got %d", creds, w.Code)
		}
	}

	// Logout revokes only the presented token.
	w = doJSON(t, mux, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodGet, "/api/auth/me", loginToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me with second token: expected 200, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "secret1"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "five5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", tc.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", w.Code)
			}
		})
	}
}

func TestRejectsMalformedBodies(t *testing.T) {
	mux := newTestMux(t)

	// Unknown fields are rejected instead of silently dropped.
	w := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "typo@example.com",
		"password": "secret1",
		"pasword":  "secret1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", w.Code)
	}

	// Oversized bodies are cut off by the request size limit.
	w = doJSON(t, mux, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "big@example.com",
		"password": strings.Repeat("a", 2<<20),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body: expected 400, got %d", w.Code)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	mux := newTestMux(t)
	token := registerAndToken(t, mux, "pw@example.com")

	w := doJSON(t, mux, http.MethodPut, "/api/auth/password", token, map[string]string{
		"currentPassword": "secret1",
		"newPassword":     "secret2",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("change password: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "pw@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", w.Code)
	}

	w = doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "pw@example.com",
		"password": "secret2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("new password: expected 200, got %d", w.Code)
	}
}

func TestLogoutAllFlow(t *testing.T) {
	mux := newTestMux(t)
	token := registerAndToken(t, mux, "all@example.com")

	w := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "all@example.com",
		"password": "secret1",
	})
	second, _ := decodeBody(t, w)["token"].(string)

	w = doJSON(t, mux, http.MethodPost, "/api/auth/logout-all", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout-all: expected 204, got %d", w.Code)
	}

	for _, tok := range []string{token, second} {
		w = doJSON(t, mux, http.MethodGet, "/api/auth/me", tok, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout-all, got %d", w.Code)
		}
	}
}

func TestRecordCRUDFlow(t *testing.T) {
	mux := newTestMux(t)
	token := registerAndToken(t, mux, "records@example.com")

	// Unauthenticated access is rejected.
	w := doJSON(t, mux, http.MethodGet, "/api/records", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", w.Code)
	}

	// Create.
	w = doJSON(t, mux, http.MethodPost, "/api/records", token, map[string]any{
		"title": "Buy yarn",
		"body":  "two skeins",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	record, _ := decodeBody(t, w)["record"].(map[string]any)
	id := int64(record["id"].(float64))

	// Empty title is rejected.
	w = doJSON(t, mux, http.MethodPost, "/api/records", token, map[string]any{"title": ""})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty title: expected 422, got %d", w.Code)
	}

	// Read.
	path := fmt.Sprintf("/api/records/%d", id)
	w = doJSON(t, mux, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	// Update.
	w = doJSON(t, mux, http.MethodPut, path, token, map[string]any{
		"title": "Buy yarn",
		"body":  "two skeins",
		"done":  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated, _ := decodeBody(t, w)["record"].(map[string]any)
	if updated["done"] != true {
		t.Fatalf("expected done=true, got %v", updated["done"])
	}

	// Another user cannot see it.
	otherToken := registerAndToken(t, mux, "intruder@example.com")
	w = doJSON(t, mux, http.MethodGet, path, otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d", w.Code)
	}

	// List and delete.
	w = doJSON(t, mux, http.MethodGet, "/api/records", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	records, _ := decodeBody(t, w)["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	w = doJSON(t, mux, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodGet, path, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}
