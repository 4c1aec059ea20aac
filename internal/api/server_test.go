package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pbaille/wellness/internal/companion"
	"github.com/pbaille/wellness/internal/session"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/wellness"
)

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "wellness.db"))
	if err != nil {
		t.Fatalf("store.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := session.Login(context.Background(), st, "test@example.com", ""); err != nil {
		t.Fatalf("session.Login() unexpected error: %v", err)
	}

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	svc := wellness.New(st,
		wellness.WithClock(func() time.Time { return now }),
		wellness.WithLocation(time.UTC),
	)
	return New(st, svc, ":0", opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode body: %v", method, path, err)
		}
	}
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	code, body := do(t, newTestServer(t), http.MethodGet, "/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", code, body)
	}
}

func TestMoodRoutes(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, http.MethodPost, "/moods", `{"mood":"happy","intensity":8}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	if _, ok := body["notice"]; ok {
		t.Fatalf("unexpected notice %v", body)
	}

	code, body = do(t, h, http.MethodPost, "/moods", `{"intensity":8}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing mood, got %d", code)
	}
	fields, _ := body["fields"].(map[string]any)
	if fields["mood"] != "please select a mood first" {
		t.Fatalf("unexpected fields %v", body)
	}

	code, body = do(t, h, http.MethodGet, "/moods", "")
	moods, _ := body["moods"].([]any)
	if code != http.StatusOK || len(moods) != 1 {
		t.Fatalf("expected one mood, got %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodDelete, "/moods", ""); code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", code)
	}
}

func TestJournalAndProgress(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, http.MethodPost, "/journal", `{"mood":"calm","gratitude":["tea"],"goals":[{"id":"g1","text":"walk"}]}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	unlocked, _ := body["unlocked"].([]any)
	if len(unlocked) != 1 {
		t.Fatalf("expected first_entry unlock, got %v", body)
	}
	entry := body["entry"].(map[string]any)
	id := entry["id"].(string)

	code, body = do(t, h, http.MethodPost, "/journal/"+id[:8]+"/goals/g1/toggle", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 on toggle, got %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodPost, "/journal/nope/goals/g1/toggle", ""); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown entry, got %d", code)
	}

	code, body = do(t, h, http.MethodGet, "/progress", "")
	p := body["progress"].(map[string]any)
	if code != http.StatusOK || p["journalStreak"].(float64) != 1 || p["completedGoals"].(float64) != 1 {
		t.Fatalf("unexpected progress %d %v", code, body)
	}
}

func TestAnalyticsRange(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, http.MethodGet, "/analytics?range=7d", "")
	report := body["report"].(map[string]any)
	if code != http.StatusOK || report["window"] != "7d" || report["placeholder"] != false {
		t.Fatalf("unexpected analytics %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodGet, "/analytics?range=1y", ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown range, got %d", code)
	}
}

func TestCrisisRoutes(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, http.MethodPost, "/crisis/contacts", `{"name":"Alex","phone":"555-0100"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/crisis", "")
	contacts, _ := body["contacts"].([]any)
	plan, _ := body["plan"].([]any)
	if code != http.StatusOK || len(contacts) != 3 || len(plan) != 3 {
		t.Fatalf("unexpected crisis view %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodDelete, "/crisis/contacts/hotline-988", ""); code != http.StatusConflict {
		t.Fatalf("expected 409 removing a hotline, got %d", code)
	}
}

func TestChat(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Tell me more."}}]}`))
	}))
	defer upstream.Close()

	h := newTestServer(t)
	code, body := do(t, h, http.MethodPost, "/chat", `{"message":"hi"}`)
	if code != http.StatusUnauthorized || !strings.Contains(body["error"].(string), "API key") {
		t.Fatalf("expected key prompt, got %d %v", code, body)
	}

	h = newTestServer(t,
		WithCompanionDefaults("openai", "sk-test"),
		WithCompanionOptions(companion.WithEndpoint(upstream.URL)),
	)
	code, body = do(t, h, http.MethodPost, "/chat", `{"message":"hi"}`)
	if code != http.StatusOK || body["reply"] != "Tell me more." {
		t.Fatalf("unexpected chat response %d %v", code, body)
	}
}

func TestSessionRoutes(t *testing.T) {
	h := newTestServer(t)

	code, body := do(t, h, http.MethodPost, "/session/login", `{"email":"sam@example.com"}`)
	sc := body["session"].(map[string]any)
	if code != http.StatusOK || sc["isAuthenticated"] != true || sc["userName"] != "sam" {
		t.Fatalf("unexpected login response %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodPost, "/session/logout", ""); code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", code)
	}
	_, body = do(t, h, http.MethodGet, "/session", "")
	if body["session"].(map[string]any)["isAuthenticated"] != false {
		t.Fatalf("expected signed out session, got %v", body)
	}
}

func TestSignedOutRequestsAreRejected(t *testing.T) {
	h := newTestServer(t)
	if code, _ := do(t, h, http.MethodPost, "/session/logout", ""); code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", code)
	}

	for _, route := range [][3]string{
		{http.MethodGet, "/moods", ""},
		{http.MethodPost, "/moods", `{"mood":"happy"}`},
		{http.MethodPost, "/journal", `{"mood":"calm","gratitude":["tea"]}`},
		{http.MethodGet, "/progress", ""},
		{http.MethodPost, "/chat", `{"message":"hi"}`},
		{http.MethodPost, "/crisis/contacts", `{"name":"Alex","phone":"555-0100"}`},
	} {
		if code, _ := do(t, h, route[0], route[1], route[2]); code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route[0], route[1], code)
		}
	}

	code, body := do(t, h, http.MethodGet, "/crisis", "")
	if contacts, _ := body["contacts"].([]any); code != http.StatusOK || len(contacts) != 2 {
		t.Fatalf("expected hotlines while signed out, got %d %v", code, body)
	}

	if code, _ := do(t, h, http.MethodPost, "/session/login", `{"email":"sam@example.com"}`); code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d", code)
	}
	if code, _ := do(t, h, http.MethodGet, "/moods", ""); code != http.StatusOK {
		t.Fatalf("expected 200 after signing in, got %d", code)
	}
}

func TestConcurrentMoodPosts(t *testing.T) {
	h := newTestServer(t)

	const n = 40
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/moods", strings.NewReader(`{"mood":"calm","intensity":6}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}
	}

	_, body := do(t, h, http.MethodGet, "/moods", "")
	if moods, _ := body["moods"].([]any); len(moods) != n {
		t.Fatalf("expected %d stored moods, got %d", n, len(moods))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/health", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected prometheus output, got %d", rec.Code)
	}
}
