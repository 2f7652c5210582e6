package translation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestAudioCandidates(t *testing.T) {
	got := AudioCandidates("chat")
	want := []string{"Fr-chat.ogg", "Fr-chat.mp3", "chat-fr.ogg", "chat-fr.mp3"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("AudioCandidates = %v, want %v", got, want)
	}
}

func newCommonsServer(t *testing.T, hits map[string]string, fail map[string]bool) (*httptest.Server, *[]string) {
	t.Helper()

	var mu sync.Mutex
	var titles []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("prop") != "imageinfo" || q.Get("iiprop") != "url" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Missing User-Agent header")
		}

		title := q.Get("titles")
		mu.Lock()
		titles = append(titles, title)
		mu.Unlock()

		if fail[title] {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if u, ok := hits[title]; ok {
			fmt.Fprintf(w, `{"query":{"pages":{"123":{"title":%q,"imageinfo":[{"url":%q}]}}}}`, title, u)
			return
		}
		fmt.Fprintf(w, `{"query":{"pages":{"-1":{"title":%q,"missing":""}}}}`, title)
	}))
	t.Cleanup(server.Close)
	return server, &titles
}

func TestLookupAudioURLFirstHitWins(t *testing.T) {
	server, titles := newCommonsServer(t, map[string]string{
		"File:Fr-chat.mp3": "https://upload.example/Fr-chat.mp3",
		"File:chat-fr.ogg": "https://upload.example/chat-fr.ogg",
	}, nil)

	c := NewCommons(server.URL, server.Client())
	u, ok := c.LookupAudioURL(context.Background(), "chat")

	if !ok || u != "https://upload.example/Fr-chat.mp3" {
		t.Errorf("LookupAudioURL = %q, %v", u, ok)
	}
	if len(*titles) != 2 {
		t.Errorf("Expected 2 queries, got %v", *titles)
	}
}

func TestLookupAudioURLMiss(t *testing.T) {
	server, titles := newCommonsServer(t, nil, nil)

	c := NewCommons(server.URL, server.Client())
	if u, ok := c.LookupAudioURL(context.Background(), "xyzzy"); ok || u != "" {
		t.Errorf("Expected a miss, got %q", u)
	}
	if len(*titles) != 4 {
		t.Errorf("Expected all 4 candidates to be tried, got %v", *titles)
	}
}

func TestLookupAudioURLSkipsFailingCandidate(t *testing.T) {
	server, _ := newCommonsServer(t,
		map[string]string{"File:Fr-chien.mp3": "https://upload.example/Fr-chien.mp3"},
		map[string]bool{"File:Fr-chien.ogg": true},
	)

	c := NewCommons(server.URL, server.Client())
	u, ok := c.LookupAudioURL(context.Background(), "chien")
	if !ok || u != "https://upload.example/Fr-chien.mp3" {
		t.Errorf("LookupAudioURL = %q, %v", u, ok)
	}
}
