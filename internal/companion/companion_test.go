package companion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbaille/wellness/internal/session"
)

func newServer(t *testing.T, status int, body string, seen *apiRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendOpenAI(t *testing.T) {
	var seen apiRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"I'm here for you."}}]}`, &seen)
	c := New(session.Context{Provider: session.ProviderOpenAI, APIKey: "sk-test"}, WithEndpoint(srv.URL))

	history := []Message{{Role: RoleAssistant, Content: Greeting}}
	reply, err := c.Send(context.Background(), history, "rough day")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if reply != "I'm here for you." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if seen.Model != "gpt-3.5-turbo" || seen.MaxTokens != 150 || seen.Temperature != 0.7 {
		t.Fatalf("unexpected request parameters %+v", seen)
	}
	if len(seen.Messages) != 3 || seen.Messages[0].Role != RoleSystem || seen.Messages[2].Content != "rough day" {
		t.Fatalf("unexpected messages %+v", seen.Messages)
	}
}

func TestSendClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"Incorrect API key provided"}}`, want: ErrUnauthorized},
		{name: "rate limit", status: http.StatusTooManyRequests, body: `{"error":{"message":"Rate limit reached"}}`, want: ErrRateLimited},
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":{"message":"You exceeded your current quota"}}`, want: ErrQuotaExceeded},
		{name: "server error", status: http.StatusBadGateway, body: `bad gateway`, want: ErrNetwork},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := newServer(t, testCase.status, testCase.body, nil)
			c := New(session.Context{Provider: session.ProviderOpenAI, APIKey: "sk-test"}, WithEndpoint(srv.URL))
			_, err := c.Send(context.Background(), nil, "hello")
			if !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}

func TestSendWithoutKey(t *testing.T) {
	c := New(session.Context{})
	_, err := c.Send(context.Background(), nil, "hi")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if msg := FriendlyMessage(err, c.Provider()); !strings.Contains(msg, "configure your AI API key") {
		t.Fatalf("unexpected friendly message %q", msg)
	}
}

func TestGrokFallsBackOnFailure(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)
	c := New(session.Context{Provider: session.ProviderGrok, APIKey: "sk-test"}, WithEndpoint(srv.URL))

	reply, err := c.Send(context.Background(), nil, "I feel so anxious today")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if !strings.Contains(reply, "deep breath") {
		t.Fatalf("expected anxiety fallback, got %q", reply)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "Feeling DOWN", want: "feeling down"},
		{text: "so frustrated", want: "valid emotion"},
		{text: "total burnout", want: "worn out"},
		{text: "a great walk", want: "celebrate"},
	}
	for _, testCase := range tests {
		if got := Fallback(testCase.text, nil); !strings.Contains(got, testCase.want) {
			t.Fatalf("Fallback(%q) = %q, want it to mention %q", testCase.text, got, testCase.want)
		}
	}

	got := Fallback("the weather", func(n int) int { return n - 1 })
	if got != defaultReplies[len(defaultReplies)-1] {
		t.Fatalf("expected last default reply, got %q", got)
	}
}

func TestFriendlyMessageNetwork(t *testing.T) {
	msg := FriendlyMessage(ErrNetwork, "Grok")
	if msg != "Connection to Grok failed. Please check your API key or try switching providers. 🔌" {
		t.Fatalf("unexpected message %q", msg)
	}
}
