package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClient_LoginWithEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/login/email" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["email"] != "a@b.com" {
			t.Errorf("expected email in request, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"ticket": "tok-123", "userId": "u1"},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	res, err := client.LoginWithEmail(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "tok-123" || res.UserID != "u1" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHTTPClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    401,
				"message": "invalid email or password",
				"details": map[string]string{"email": "unknown"},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	_, err := client.LoginWithEmail(context.Background(), "a@b.com", "wrong")

	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if svcErr.Code != 401 || svcErr.Message != "invalid email or password" {
		t.Errorf("unexpected error: %+v", svcErr)
	}
	if svcErr.Details["email"] != "unknown" {
		t.Errorf("expected field details, got %v", svcErr.Details)
	}
}

func TestHTTPClient_UserDataRoundTrip(t *testing.T) {
	store := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", got)
		}
		switch r.URL.Path {
		case "/v1/userdata/update":
			var body struct {
				Data map[string]string `json:"data"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			for k, v := range body.Data {
				store[k] = v
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		case "/v1/userdata/get":
			var body struct {
				Keys []string `json:"keys"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			out := map[string]string{}
			for _, k := range body.Keys {
				if v, ok := store[k]; ok {
					out[k] = v
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"data": out},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	ctx := context.Background()

	err := client.UpdateUserData(ctx, "tok-123", map[string]string{"stage1_complete": "true"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	data, err := client.GetUserData(ctx, "tok-123", []string{"stage1_complete", "missing"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if data["stage1_complete"] != "true" {
		t.Errorf("expected stored flag, got %v", data)
	}
	if _, ok := data["missing"]; ok {
		t.Error("absent keys must be omitted")
	}
}

func TestHTTPClient_NetworkError(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:0", nil)
	_, err := client.LoginWithEmail(context.Background(), "a@b.com", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		t.Errorf("network failure must not be a service rejection: %v", err)
	}
}
