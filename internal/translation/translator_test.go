package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestMyMemoryTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Bonjour le monde." {
			t.Errorf("Unexpected q %q", got)
		}
		if got := r.URL.Query().Get("langpair"); got != "fr|en" {
			t.Errorf("Unexpected langpair %q", got)
		}
		fmt.Fprint(w, `{"responseData":{"translatedText":"Hello world."},"responseStatus":200}`)
	}))
	defer server.Close()

	m := NewMyMemory(server.URL, server.Client())
	r := m.Translate(context.Background(), "Bonjour le monde.", "fr", "en")

	if !r.OK() || r.Text != "Hello world." {
		t.Errorf("Unexpected result: %+v", r)
	}
}

func TestMyMemoryFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"malformed json", http.StatusOK, `{"responseData":`},
		{"quota exceeded", http.StatusOK, `{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":"429","responseDetails":"quota"}`},
		{"empty translation", http.StatusOK, `{"responseData":{"translatedText":""},"responseStatus":200}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.payload)
			}))
			defer server.Close()

			r := NewMyMemory(server.URL, server.Client()).Translate(context.Background(), "chat", "fr", "en")
			if r.Err == nil {
				t.Error("Expected an error")
			}
			if r.Text != "" || r.OK() {
				t.Errorf("Failed result must carry no text: %+v", r)
			}
		})
	}
}

func TestMyMemoryUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	r := NewMyMemory(url, nil).Translate(context.Background(), "chat", "fr", "en")
	if r.Err == nil || r.Text != "" {
		t.Errorf("Expected failed result, got %+v", r)
	}
}

func TestOpenAITranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  cat \n"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	o := NewOpenAI("test-key", "", server.URL+"/v1")
	r := o.Translate(context.Background(), "chat", "fr", "en")
	if r.Err != nil || r.Text != "cat" {
		t.Errorf("Unexpected result: %+v", r)
	}
}

func TestOpenAITranslate_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	r := NewOpenAI(apiKey, "", "").Translate(context.Background(), "pomme", "fr", "en")
	if r.Err != nil {
		t.Fatalf("Translate failed: %v", r.Err)
	}
	t.Logf("Translation of 'pomme': %s", r.Text)
}

func TestGeminiTranslate_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	g, err := NewGemini(context.Background(), apiKey, "", "")
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	r := g.Translate(context.Background(), "pomme", "fr", "en")
	if r.Err != nil {
		t.Fatalf("Translate failed: %v", r.Err)
	}
	t.Logf("Translation of 'pomme': %s", r.Text)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  bool
	}{
		{"default", nil, "mymemory", false},
		{"mymemory without breaker", &Config{Provider: "mymemory"}, "mymemory", false},
		{"openai", &Config{Provider: "openai", OpenAIKey: "k"}, "openai", false},
		{"openai without key", &Config{Provider: "openai"}, "", true},
		{"gemini without key", &Config{Provider: "gemini"}, "", true},
		{"unknown", &Config{Provider: "babelfish"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("Name = %q, want %q", tr.Name(), tt.wantName)
			}
		})
	}
}

// countingTranslator fails every call and counts them
type countingTranslator struct {
	calls int
}

func (c *countingTranslator) Name() string { return "counting" }

func (c *countingTranslator) Translate(ctx context.Context, text, from, to string) Result {
	c.calls++
	return Failed(errors.New("service down"))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingTranslator{}
	b := NewBreaker(next)

	for i := 0; i < 5; i++ {
		r := b.Translate(context.Background(), "chat", "fr", "en")
		if r.Err == nil || r.Text != "" {
			t.Fatalf("Expected failed result, got %+v", r)
		}
	}

	if next.calls != 3 {
		t.Errorf("Expected 3 calls before the circuit opened, got %d", next.calls)
	}
	if b.State() != gobreaker.StateOpen {
		t.Errorf("Expected open circuit, got %v", b.State())
	}

	r := b.Translate(context.Background(), "chat", "fr", "en")
	if !errors.Is(r.Err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", r.Err)
	}
}

func TestBreakerPassesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseData":{"translatedText":"dog"},"responseStatus":200}`)
	}))
	defer server.Close()

	b := NewBreaker(NewMyMemory(server.URL, server.Client()))
	if r := b.Translate(context.Background(), "chien", "fr", "en"); r.Text != "dog" {
		t.Errorf("Unexpected result: %+v", r)
	}
}

func TestBreakerIgnoresCanceledCalls(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"responseData":{"translatedText":"hello"},"responseStatus":200}`)
	}))
	defer server.Close()

	b := NewBreaker(NewMyMemory(server.URL, server.Client()))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if r := b.Translate(canceled, "bonjour", "fr", "en"); r.Err == nil {
			t.Fatalf("Expected a failed result for a canceled context, got %+v", r)
		}
	}

	if b.State() != gobreaker.StateClosed {
		t.Fatalf("Canceled calls opened the circuit: %v", b.State())
	}
	r := b.Translate(context.Background(), "bonjour", "fr", "en")
	if r.Text != "hello" {
		t.Errorf("Expected a translation after canceled calls, got %+v", r)
	}
	if requests != 1 {
		t.Errorf("Expected one request to reach the server, got %d", requests)
	}
}

func TestServiceHealthy(t *testing.T) {
	live := context.Background()
	gone, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"success", live, nil, true},
		{"caller canceled", gone, fmt.Errorf("mymemory request: %w", context.Canceled), true},
		{"client timeout", live, fmt.Errorf("mymemory request: %w", context.DeadlineExceeded), false},
		{"service error", live, errors.New("mymemory returned status 500"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := callerErr(tt.ctx, tt.err)
			if got := serviceHealthy(err); got != tt.want {
				t.Errorf("serviceHealthy(%v) = %v, want %v", err, got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("callerErr lost the cause %v", tt.err)
			}
		})
	}
}

func TestBreakerOpensOnClientTimeouts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	b := NewBreaker(NewMyMemory(server.URL, NewHTTPClient(20*time.Millisecond)))
	for i := 0; i < 3; i++ {
		if r := b.Translate(context.Background(), "bonjour", "fr", "en"); r.Err == nil {
			t.Fatalf("Expected a timeout, got %+v", r)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Errorf("Expected repeated timeouts to open the circuit, got %v", b.State())
	}
}

func TestNewHTTPClientTimeout(t *testing.T) {
	if got := defaultHTTPClient().Timeout; got != 0 {
		t.Errorf("Default client timeout = %v, want none", got)
	}
	if got := NewHTTPClient(5 * time.Second).Timeout; got != 5*time.Second {
		t.Errorf("Client timeout = %v, want 5s", got)
	}

	config := DefaultConfig()
	if config.Timeout != 0 {
		t.Errorf("Default translation timeout = %v, want none", config.Timeout)
	}
}
