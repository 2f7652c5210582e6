package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize([]string{
		"gpt-4o-mini", "tts-1-hd", "dall-e-3", "gpt-4o-mini-tts",
		"gpt-4o-audio-preview", "whisper-1", "tts-1", "gpt-4.1",
	})

	want := Categories{
		TTS:  []string{"gpt-4o-mini-tts", "tts-1", "tts-1-hd"},
		Chat: []string{"gpt-4.1", "gpt-4o-mini"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %+v, want %+v", got, want)
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected the error to name OPENAI_API_KEY, got: %v", err)
	}
}

func TestListAvailableModels_Server(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"tts-1","object":"model"},{"id":"gpt-4o-mini","object":"model"}]}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	lister := NewLister("test-key", server.URL)
	if err := lister.ListAvailableModels(context.Background(), &out); err != nil {
		t.Fatalf("ListAvailableModels() error = %v", err)
	}

	for _, want := range []string{"tts-1", "gpt-4o-mini", "Chat Models"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}
}

func TestListAvailableModels_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	lister := NewLister("test-key", server.URL)
	if _, err := lister.Fetch(context.Background()); err == nil {
		t.Error("Expected error from a failing server")
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	var out bytes.Buffer
	if err := NewLister(apiKey, "").ListAvailableModels(context.Background(), &out); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
