package translation

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Result is the outcome of one translation call. Text is empty whenever
// Err is set.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the call produced a translation
func (r Result) OK() bool {
	return r.Err == nil && r.Text != ""
}

// Failed builds a failed result
func Failed(err error) Result {
	return Result{Err: err}
}

// Translator translates text between two languages
type Translator interface {
	// Translate translates text from one language code to another
	Translate(ctx context.Context, text, from, to string) Result

	// Name returns the provider name
	Name() string
}

// Config selects and configures a translation provider
type Config struct {
	Provider string // "mymemory", "openai" or "gemini"
	Endpoint string // Base URL override, mostly for tests

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	// Breaker wraps the provider in a circuit breaker when true
	Breaker bool

	// Timeout bounds each HTTP request of the MyMemory provider.
	// Zero means no timeout; the caller's context still applies.
	Timeout time.Duration
}

// DefaultConfig returns the configuration of the free MyMemory service
func DefaultConfig() *Config {
	return &Config{
		Provider:    "mymemory",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		Breaker:     true,
	}
}

// New creates the translator described by config
func New(ctx context.Context, config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		t   Translator
		err error
	)
	switch config.Provider {
	case "", "mymemory":
		t = NewMyMemory(config.Endpoint, NewHTTPClient(config.Timeout))
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		t = NewOpenAI(config.OpenAIKey, config.OpenAIModel, config.Endpoint)
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		t, err = NewGemini(ctx, config.GeminiKey, config.GeminiModel, config.Endpoint)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	if config.Breaker {
		t = NewBreaker(t)
	}
	return t, nil
}

// NewHTTPClient returns a client for the REST providers. A zero timeout
// leaves requests bounded only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func defaultHTTPClient() *http.Client {
	return NewHTTPClient(0)
}
