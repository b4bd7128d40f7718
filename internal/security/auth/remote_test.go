package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":           "user-9",
			"email":        "nine@example.com",
			"app_metadata": map[string]any{"role": "admin"},
		})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL+"/", "anon", nil)

	id, err := v.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "user-9" || id.Email != "nine@example.com" || !id.HasRole("admin") {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, err := v.Verify(context.Background(), "bad"); err == nil {
		t.Fatal("expected rejected token to fail")
	}
}

func TestRemoteVerifierEmptyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewRemoteVerifier(srv.URL, "anon", nil).Verify(context.Background(), "tok"); err == nil {
		t.Fatal("expected error when identity service returns no user")
	}
}
