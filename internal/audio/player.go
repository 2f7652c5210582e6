package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"codeberg.org/snonux/lecteur/internal"
)

// Player plays audio files through the platform's command line player
type Player struct {
	cacheDir   string
	httpClient *http.Client

	// Logger receives playback failures. Nil means silent.
	Logger *log.Logger

	mu      sync.Mutex
	current *Process
}

// NewPlayer creates a player that caches downloaded clips in cacheDir
func NewPlayer(cacheDir string) *Player {
	return &Player{
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the client used for downloads
func (p *Player) SetHTTPClient(c *http.Client) {
	p.httpClient = c
}

// playerCommand picks a platform specific command for file
func playerCommand(ctx context.Context, file string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", file), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil && path.Ext(file) == ".mp3" {
			return exec.CommandContext(ctx, "mpg123", "-q", file), nil
		}
		if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file), nil
		}
		if _, err := exec.LookPath("play"); err == nil {
			// SoX play command
			return exec.CommandContext(ctx, "play", "-q", file), nil
		}
		if _, err := exec.LookPath("paplay"); err == nil {
			return exec.CommandContext(ctx, "paplay", file), nil
		}
		if _, err := exec.LookPath("aplay"); err == nil {
			return exec.CommandContext(ctx, "aplay", "-q", file), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "/min", file), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Start plays file and returns the running process. It does not touch
// the player's current clip.
func (p *Player) Start(ctx context.Context, file string) (*Process, error) {
	cmd, err := playerCommand(ctx, file)
	if err != nil {
		return nil, err
	}
	return startProcess(ctx, cmd)
}

// Play stops the current clip and plays file
func (p *Player) Play(ctx context.Context, file string) error {
	p.Stop()

	proc, err := p.Start(ctx, file)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.current = proc
	p.mu.Unlock()

	go func() {
		if err := proc.Wait(); err != nil && p.Logger != nil {
			p.Logger.Printf("Playback of %s failed: %v", filepath.Base(file), err)
		}
		p.mu.Lock()
		if p.current == proc {
			p.current = nil
		}
		p.mu.Unlock()
	}()
	return nil
}

// PlayURL downloads a clip (or reuses the cached copy) and plays it
func (p *Player) PlayURL(ctx context.Context, rawURL string) error {
	file, err := p.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	return p.Play(ctx, file)
}

// Stop kills the current clip
func (p *Player) Stop() {
	p.mu.Lock()
	proc := p.current
	p.current = nil
	p.mu.Unlock()

	if proc != nil {
		proc.Cancel()
	}
}

// Playing reports whether a clip is playing
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// CachePath returns where the clip at rawURL is cached
func (p *Player) CachePath(rawURL string) string {
	ext := ".ogg"
	if u, err := url.Parse(rawURL); err == nil && path.Ext(u.Path) != "" {
		ext = path.Ext(u.Path)
	}
	return filepath.Join(p.cacheDir, "clips", internal.HashKey(rawURL)+ext)
}

// Fetch downloads rawURL into the cache unless it is already there and
// returns the local file
func (p *Player) Fetch(ctx context.Context, rawURL string) (string, error) {
	file := p.CachePath(rawURL)
	if info, err := os.Stat(file); err == nil && info.Size() > 0 {
		return file, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "lecteur/"+internal.Version)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(file), "clip-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	written, err := io.Copy(tmp, resp.Body)
	tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write clip: %w", err)
	}
	if written == 0 {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("no audio data received from %s", rawURL)
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store clip: %w", err)
	}
	return file, nil
}
