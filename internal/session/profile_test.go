package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autorevise/internal/models"
)

func newRequestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range rec.Result().Cookies() {
		r.AddCookie(cookie)
	}
	return r
}

func TestProfileRoundTrip(t *testing.T) {
	store := NewProfileStore("test-secret", time.Hour)
	user := &models.User{UserID: 42, Username: "amy", Email: "amy@example.com", Points: 150}

	rec := httptest.NewRecorder()
	if err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), user); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load(newRequestWithCookies(t, rec))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.UserID != 42 || loaded.Username != "amy" || loaded.Points != 150 {
		t.Errorf("loaded profile = %+v, want original user", loaded)
	}
}

func TestLoadWithoutCookie(t *testing.T) {
	store := NewProfileStore("test-secret", time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	if _, err := store.Load(r); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Load() error = %v, want ErrNoProfile", err)
	}
	if store.IsLoggedIn(r) {
		t.Error("IsLoggedIn() should be false without a cookie")
	}
}

func TestLoadRejectsTamperedCookie(t *testing.T) {
	store := NewProfileStore("test-secret", time.Hour)
	user := &models.User{UserID: 42, Username: "amy"}

	rec := httptest.NewRecorder()
	if err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), user); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"})

	if _, err := store.Load(r); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Load() error = %v, want ErrNoProfile for tampered cookie", err)
	}
}

func TestLoadRejectsWrongSecret(t *testing.T) {
	writer := NewProfileStore("secret-a", time.Hour)
	reader := NewProfileStore("secret-b", time.Hour)

	rec := httptest.NewRecorder()
	if err := writer.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), &models.User{UserID: 1}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if _, err := reader.Load(newRequestWithCookies(t, rec)); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Load() with wrong secret = %v, want ErrNoProfile", err)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	store := NewProfileStore("test-secret", time.Hour)
	rec := httptest.NewRecorder()

	store.Clear(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected a deletion cookie, got %v", cookies)
	}
	if cookies[0].Name != ProfileCookie {
		t.Errorf("cookie name = %q, want %q", cookies[0].Name, ProfileCookie)
	}
}

func TestVisitorIDStable(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/study", nil)

	id := VisitorID(rec, r)
	if id == "" {
		t.Fatal("expected a fresh visitor id")
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), VisitorCookie) {
		t.Error("expected the visitor cookie to be set")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/study", nil)
	r2.AddCookie(&http.Cookie{Name: VisitorCookie, Value: id})
	if got := VisitorID(httptest.NewRecorder(), r2); got != id {
		t.Errorf("VisitorID() = %q, want stable %q", got, id)
	}
}
