package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/odiadev/odia-backend/internal/ai"
)

// stubProvider is a scripted Provider that counts its calls.
type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }
func (p *stubProvider) Complete(ctx context.Context, system, user string) (string, error) {
	p.calls++
	return p.text, p.err
}

func TestComplete_PrimarySucceeds(t *testing.T) {
	primary := &stubProvider{name: "zai", text: "hello from primary"}
	secondary := &stubProvider{name: "claude", text: "hello from secondary"}
	svc := ai.NewService(primary, secondary)

	res, err := svc.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "hello from primary" {
		t.Errorf("Complete().Text = %q, want primary reply", res.Text)
	}
	if res.Provider != "zai" {
		t.Errorf("Complete().Provider = %q, want %q", res.Provider, "zai")
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestComplete_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubProvider{name: "zai", err: errors.New("status 500")}
	secondary := &stubProvider{name: "claude", text: "fallback reply"}
	svc := ai.NewService(primary, secondary)

	res, err := svc.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "fallback reply" {
		t.Errorf("Complete().Text = %q, want fallback reply", res.Text)
	}
	if res.Provider != "claude" {
		t.Errorf("Complete().Provider = %q, want %q", res.Provider, "claude")
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, secondary.calls)
	}
}

func TestComplete_BothFail(t *testing.T) {
	primary := &stubProvider{name: "zai", err: errors.New("down")}
	secondary := &stubProvider{name: "claude", err: errors.New("also down")}
	svc := ai.NewService(primary, secondary)

	_, err := svc.Complete(context.Background(), "system", "user")
	if !errors.Is(err, ai.ErrCompletionUnavailable) {
		t.Fatalf("Complete() error = %v, want ErrCompletionUnavailable", err)
	}
	// No retry against the same provider: exactly one call each.
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, secondary.calls)
	}
}

func TestOpenAICompat_RequestShapeAndResponse(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"how far!"}}]}`))
	}))
	defer srv.Close()

	p := &ai.OpenAICompat{Label: "zai", Endpoint: srv.URL, APIKey: "test-key", Model: "glm-4.5", Client: srv.Client()}
	text, err := p.Complete(context.Background(), "be helpful", "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "how far!" {
		t.Errorf("Complete() = %q, want %q", text, "how far!")
	}
	if gotBody.Model != "glm-4.5" {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("request messages = %+v, want system then user turn", gotBody.Messages)
	}
}

func TestOpenAICompat_EmptyContentIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := &ai.OpenAICompat{Label: "zai", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := p.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Complete() with no choices should fail, not succeed with empty text")
	}
}

func TestAnthropic_RequestShapeAndResponse(t *testing.T) {
	var gotBody struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    string `json:"system"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"no wahala"}]}`))
	}))
	defer srv.Close()

	p := &ai.Anthropic{Endpoint: srv.URL, APIKey: "sk-test", Model: "claude-3-5-sonnet-20240620", MaxTokens: 400, Client: srv.Client()}
	text, err := p.Complete(context.Background(), "be helpful", "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "no wahala" {
		t.Errorf("Complete() = %q, want %q", text, "no wahala")
	}
	if gotBody.System != "be helpful" {
		t.Errorf("request system = %q, want system prompt in dedicated field", gotBody.System)
	}
	if gotBody.MaxTokens != 400 {
		t.Errorf("request max_tokens = %d, want 400", gotBody.MaxTokens)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Errorf("request messages = %+v, want single user turn", gotBody.Messages)
	}
}

func TestAnthropic_EmptyContentIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	p := &ai.Anthropic{Endpoint: srv.URL, Client: srv.Client()}
	if _, err := p.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Complete() with empty content should fail")
	}
}

func TestFallback_EndToEndOverHTTP(t *testing.T) {
	primaryCalls, secondaryCalls := 0, 0
	primarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryCalls++
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer primarySrv.Close()
	secondarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls++
		w.Write([]byte(`{"content":[{"type":"text","text":"rescued"}]}`))
	}))
	defer secondarySrv.Close()

	svc := ai.NewService(
		&ai.OpenAICompat{Label: "zai", Endpoint: primarySrv.URL, Client: primarySrv.Client()},
		&ai.Anthropic{Endpoint: secondarySrv.URL, Client: secondarySrv.Client()},
	)

	res, err := svc.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "rescued" {
		t.Errorf("Complete().Text = %q, want %q", res.Text, "rescued")
	}
	if primaryCalls != 1 || secondaryCalls != 1 {
		t.Errorf("provider calls = (%d, %d), want (1, 1)", primaryCalls, secondaryCalls)
	}
}
