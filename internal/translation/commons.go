package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
)

// CommonsEndpoint is the Wikimedia Commons API
const CommonsEndpoint = "https://commons.wikimedia.org/w/api.php"

const userAgent = "lecteur/1.0 (French reading companion)"

// Commons finds recorded pronunciations on Wikimedia Commons
type Commons struct {
	endpoint   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

type commonsResponse struct {
	Query struct {
		Pages map[string]struct {
			Missing   *string `json:"missing"`
			ImageInfo []struct {
				URL string `json:"url"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// NewCommons creates a Commons client. Empty endpoint and nil client select
// the defaults.
func NewCommons(endpoint string, httpClient *http.Client) *Commons {
	if endpoint == "" {
		endpoint = CommonsEndpoint
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &Commons{
		endpoint:   endpoint,
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(breakerSettings("commons")),
	}
}

// AudioCandidates returns the file names tried for word, in order
func AudioCandidates(word string) []string {
	return []string{
		"Fr-" + word + ".ogg",
		"Fr-" + word + ".mp3",
		word + "-fr.ogg",
		word + "-fr.mp3",
	}
}

// LookupAudioURL returns the URL of the first recorded pronunciation of
// word. A failing candidate is skipped; an open circuit or a cancelled
// context ends the search.
func (c *Commons) LookupAudioURL(ctx context.Context, word string) (string, bool) {
	for _, name := range AudioCandidates(word) {
		u, err := c.fileURL(ctx, name)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return "", false
			}
			continue
		}
		if u != "" {
			return u, true
		}
	}
	return "", false
}

func (c *Commons) fileURL(ctx context.Context, name string) (string, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		u, err := c.query(ctx, name)
		return u, callerErr(ctx, err)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *Commons) query(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "File:"+name)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")
	params.Set("format", "json")
	params.Set("origin", "*")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("commons request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("commons returned status %d", resp.StatusCode)
	}

	var body commonsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode commons response: %w", err)
	}

	for _, page := range body.Query.Pages {
		if page.Missing != nil || len(page.ImageInfo) == 0 {
			continue
		}
		if u := strings.TrimSpace(page.ImageInfo[0].URL); u != "" {
			return u, nil
		}
	}
	return "", nil
}
