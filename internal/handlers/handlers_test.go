package handlers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"autorevise/internal/api"
	"autorevise/internal/models"
	"autorevise/internal/service"
	"autorevise/internal/session"
)

func testTemplates(t *testing.T) *template.Template {
	t.Helper()
	tmpl := template.New("test")
	for _, name := range []string{
		"login.tmpl", "register.tmpl", "dashboard.tmpl", "deck.tmpl",
		"study.tmpl", "study_mcq.tmpl", "study_results.tmpl",
		"achievements.tmpl", "import_preview.tmpl",
	} {
		template.Must(tmpl.New(name).Parse("{{.Title}}"))
	}
	return tmpl
}

func loggedInRequest(t *testing.T, store *session.ProfileStore, method, target string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := store.Save(rec, httptest.NewRequest(method, target, nil), &models.User{UserID: 1, Username: "amy"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	r := httptest.NewRequest(method, target, nil)
	for _, cookie := range rec.Result().Cookies() {
		r.AddCookie(cookie)
	}
	return r
}

func TestRequireAuthRedirectsWithoutProfile(t *testing.T) {
	var backendCalls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
	}))
	defer backend.Close()

	store := session.NewProfileStore("test-secret", time.Hour)
	mw := NewMiddleware(store)
	handler := NewDashboardHandler(api.NewClient(backend.URL), store, testTemplates(t))

	rec := httptest.NewRecorder()
	mw.RequireAuth(handler.Dashboard)(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
	if backendCalls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0 for unauthenticated request", backendCalls.Load())
	}
}

func TestRequireAuthPassesProfileThrough(t *testing.T) {
	store := session.NewProfileStore("test-secret", time.Hour)
	mw := NewMiddleware(store)

	var got *models.User
	next := func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	}

	rec := httptest.NewRecorder()
	mw.RequireAuth(next)(rec, loggedInRequest(t, store, http.MethodGet, "/dashboard"))

	if got == nil || got.UserID != 1 || got.Username != "amy" {
		t.Errorf("context user = %+v, want cached profile", got)
	}
}

func TestDashboardClearsProfileOnBackendAuthError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Authentication required"}`))
	}))
	defer backend.Close()

	store := session.NewProfileStore("test-secret", time.Hour)
	handler := NewDashboardHandler(api.NewClient(backend.URL), store, testTemplates(t))
	mw := NewMiddleware(store)

	rec := httptest.NewRecorder()
	mw.RequireAuth(handler.Dashboard)(rec, loggedInRequest(t, store, http.MethodGet, "/dashboard"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.ProfileCookie && cookie.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the profile cookie to be cleared")
	}
}

func TestFilterAchievements(t *testing.T) {
	all := []models.Achievement{
		{AchievementID: 1, Name: "First Steps", Earned: true},
		{AchievementID: 2, Name: "Week Streak", Earned: true},
		{AchievementID: 3, Name: "Century", Earned: true},
		{AchievementID: 4, Name: "Marathon", Earned: false},
		{AchievementID: 5, Name: "Perfectionist", Earned: false},
	}

	tests := []struct {
		filter    string
		wantCount int
	}{
		{"all", 5},
		{"earned", 3},
		{"locked", 2},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			views, earned, locked := filterAchievements(all, tt.filter)
			if len(views) != tt.wantCount {
				t.Errorf("filtered count = %d, want %d", len(views), tt.wantCount)
			}
			// Counts come from the full list regardless of filter.
			if earned != 3 || locked != 2 {
				t.Errorf("counts = %d earned / %d locked, want 3/2", earned, locked)
			}
		})
	}
}

func TestAchievementsShowFetchesStats(t *testing.T) {
	var achievementCalls, statsCalls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/achievements":
			achievementCalls.Add(1)
			w.Write([]byte(`{"achievements": [{"achievement_id": 1, "name": "First Steps", "earned": true}], "total": 1, "earned": 1}`))
		case "/stats":
			statsCalls.Add(1)
			w.Write([]byte(`{"stats": {"total_points": 120, "current_streak": 4}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	store := session.NewProfileStore("test-secret", time.Hour)
	handler := NewAchievementsHandler(api.NewClient(backend.URL), store, testTemplates(t))

	rec := httptest.NewRecorder()
	handler.Show(rec, httptest.NewRequest(http.MethodGet, "/achievements", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if achievementCalls.Load() != 1 {
		t.Errorf("achievement calls = %d, want 1", achievementCalls.Load())
	}
	if statsCalls.Load() != 1 {
		t.Errorf("stats calls = %d, want 1", statsCalls.Load())
	}
}

func TestBackendErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "backend message passes through",
			err:  &api.Error{StatusCode: 409, Message: "Email already registered"},
			want: "Email already registered",
		},
		{
			name: "network error collapses to generic message",
			err:  &api.NetworkError{Endpoint: "/decks"},
			want: ErrBackendUnavailable,
		},
		{
			name: "decode error collapses to generic message",
			err:  &api.DecodeError{Endpoint: "/decks", Reason: "bad shape"},
			want: ErrBackendUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backendErrorMessage(tt.err); got != tt.want {
				t.Errorf("backendErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeCardHTMLStripsScripts(t *testing.T) {
	got := string(SafeCardHTML(`<b>bold</b><script>alert(1)</script>`))
	if strings.Contains(got, "script") {
		t.Errorf("sanitized output still contains script: %q", got)
	}
	if !strings.Contains(got, "<b>bold</b>") {
		t.Errorf("sanitized output lost safe formatting: %q", got)
	}
}

func TestUploadCSVRendersPreview(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deck": {"deck_id": 7, "deck_name": "French"}}`))
	}))
	defer backend.Close()

	store := session.NewProfileStore("test-secret", time.Hour)
	handler := NewDeckHandler(api.NewClient(backend.URL), store, testTemplates(t))

	body := &strings.Builder{}
	boundary := "testboundary"
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"csv_file\"; filename=\"cards.csv\"\r\n")
	body.WriteString("Content-Type: text/csv\r\n\r\n")
	body.WriteString("Question,Answer\nWhat is 2+2?,4\nCapital of France?,Paris\r\n")
	body.WriteString("--" + boundary + "--\r\n")

	r := httptest.NewRequest(http.MethodPost, "/decks/7/import", strings.NewReader(body.String()))
	r.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	r.SetPathValue("deckId", "7")

	rec := httptest.NewRecorder()
	handler.UploadCSV(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	handler.mu.Lock()
	pending := len(handler.pending)
	handler.mu.Unlock()
	if pending != 1 {
		t.Errorf("pending imports = %d, want 1", pending)
	}
}

func TestRateOnMCQItemSubmitsNoReview(t *testing.T) {
	var backendCalls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	store := session.NewProfileStore("test-secret", time.Hour)
	study := service.NewStudyService()
	handler := NewStudyHandler(api.NewClient(backend.URL), store, study, testTemplates(t))

	items := service.BuildItems(nil, []models.MCQ{{MCQID: 9, QuestionText: "What is 2+2?"}})
	if err := study.Start("visitor-1", 0, items); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/study/rate", strings.NewReader("rating=good"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: session.VisitorCookie, Value: "visitor-1"})

	rec := httptest.NewRecorder()
	handler.Rate(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/study" {
		t.Errorf("redirect = %q, want /study", loc)
	}
	if backendCalls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0 for a rating on a question item", backendCalls.Load())
	}
}

func TestConfirmImportRejectsUnknownKey(t *testing.T) {
	store := session.NewProfileStore("test-secret", time.Hour)
	handler := NewDeckHandler(api.NewClient("http://localhost:0"), store, testTemplates(t))

	r := httptest.NewRequest(http.MethodPost, "/decks/7/import/confirm", strings.NewReader("import_key=missing"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.SetPathValue("deckId", "7")

	rec := httptest.NewRecorder()
	handler.ConfirmImport(rec, r)

	if rec.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", rec.Code)
	}
}

func TestCleanupPendingImports(t *testing.T) {
	store := session.NewProfileStore("test-secret", time.Hour)
	handler := NewDeckHandler(api.NewClient("http://localhost:0"), store, testTemplates(t))

	handler.mu.Lock()
	handler.pending["old"] = &pendingImport{DeckID: 1, CreatedAt: time.Now().Add(-time.Hour)}
	handler.pending["fresh"] = &pendingImport{DeckID: 1, CreatedAt: time.Now()}
	handler.mu.Unlock()

	if removed := handler.CleanupPendingImports(30 * time.Minute); removed != 1 {
		t.Errorf("CleanupPendingImports() = %d, want 1", removed)
	}
}
