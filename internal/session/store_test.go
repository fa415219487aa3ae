package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/closetquest/closetquest/internal/models"
)

// requestWithCookies builds a request carrying the cookies a previous
// response set.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestPersistAndRestore(t *testing.T) {
	rec := httptest.NewRecorder()
	sess := &models.Session{Token: "tok", UserID: "u1", CustomID: "u1_1700000000"}

	res := Persist(rec, sess)
	if !res.TokenWritten || !res.CustomIDWritten {
		t.Fatalf("expected both writes to succeed, got %+v", res)
	}

	restored, ok := Restore(requestWithCookies(t, rec))
	if !ok {
		t.Fatal("expected restore to succeed")
	}
	if restored.Token != "tok" {
		t.Errorf("expected token %q, got %q", "tok", restored.Token)
	}
	if restored.CustomID != "u1_1700000000" {
		t.Errorf("expected customId %q, got %q", "u1_1700000000", restored.CustomID)
	}
	if restored.UserID != "u1" {
		t.Errorf("expected userId %q recovered from custom id, got %q", "u1", restored.UserID)
	}
}

func TestPersist_PartialWrites(t *testing.T) {
	tests := []struct {
		name string
		sess *models.Session
		want PersistResult
	}{
		{"both empty", &models.Session{}, PersistResult{}},
		{"token only", &models.Session{Token: "tok"}, PersistResult{TokenWritten: true}},
		{"custom id only", &models.Session{CustomID: "u1_1"}, PersistResult{CustomIDWritten: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := Persist(rec, tt.sess); got != tt.want {
				t.Errorf("Persist() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestRestore_NoCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if sess, ok := Restore(req); ok || sess != nil {
		t.Fatalf("expected no session, got %+v", sess)
	}
}

func TestRestore_Idempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	Persist(rec, &models.Session{Token: "tok", CustomID: "u1_1"})
	req := requestWithCookies(t, rec)

	first, ok1 := Restore(req)
	second, ok2 := Restore(req)

	if !ok1 || !ok2 {
		t.Fatal("expected both restores to succeed")
	}
	if *first != *second {
		t.Errorf("restore not idempotent: %+v vs %+v", first, second)
	}
}

func TestClear_ExpiresCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" || c.MaxAge != -1 {
			t.Errorf("cookie %s not expired: value=%q maxAge=%d", c.Name, c.Value, c.MaxAge)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	sess := &models.Session{Token: "tok", UserID: "u1"}
	ctx := WithContext(context.Background(), sess)

	got, ok := FromContext(ctx)
	if !ok || got != sess {
		t.Fatalf("expected session from context, got %+v", got)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
}
