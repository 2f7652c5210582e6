package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
)

func TestPlayerFetchCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "lecteur/") {
			t.Errorf("Unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("OggS fake clip"))
	}))
	defer server.Close()

	p := NewPlayer(t.TempDir())
	p.SetHTTPClient(server.Client())

	clip := server.URL + "/wikipedia/commons/a/ab/Fr-chat.ogg"
	file, err := p.Fetch(context.Background(), clip)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if filepath.Ext(file) != ".ogg" {
		t.Errorf("Expected .ogg cache file, got %s", file)
	}
	if data, _ := os.ReadFile(file); string(data) != "OggS fake clip" {
		t.Errorf("Unexpected clip content %q", data)
	}

	if _, err := p.Fetch(context.Background(), clip); err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected 1 download, got %d", n)
	}
}

func TestPlayerFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "empty.ogg") {
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPlayer(t.TempDir())
	p.SetHTTPClient(server.Client())

	for _, name := range []string{"/missing.ogg", "/empty.ogg"} {
		if _, err := p.Fetch(context.Background(), server.URL+name); err == nil {
			t.Errorf("Expected error for %s", name)
		}
		if _, err := os.Stat(p.CachePath(server.URL + name)); err == nil {
			t.Errorf("Failed download of %s left a cache file", name)
		}
	}
}

func TestProcessCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sleep not available")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx := context.Background()
	proc, err := startProcess(ctx, exec.CommandContext(ctx, "sleep", "10"))
	if err != nil {
		t.Fatalf("startProcess failed: %v", err)
	}

	if err := proc.Pause(); err != nil {
		t.Errorf("Pause failed: %v", err)
	}
	if err := proc.Resume(); err != nil {
		t.Errorf("Resume failed: %v", err)
	}
	if err := proc.Cancel(); err != nil {
		t.Errorf("Cancel failed: %v", err)
	}
	if err := proc.Wait(); err != nil {
		t.Errorf("Killed process reported %v", err)
	}
}

func TestProcessFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	ctx := context.Background()
	proc, err := startProcess(ctx, exec.CommandContext(ctx, "false"))
	if err != nil {
		t.Fatalf("startProcess failed: %v", err)
	}
	if err := proc.Wait(); err == nil {
		t.Error("Expected exit error")
	}
}
