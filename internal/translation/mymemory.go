package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// MyMemoryEndpoint is the public MyMemory API
const MyMemoryEndpoint = "https://api.mymemory.translated.net"

// MyMemory translates through the free MyMemory HTTP API
type MyMemory struct {
	endpoint   string
	httpClient *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

// NewMyMemory creates a MyMemory translator. Empty endpoint and nil client
// select the defaults.
func NewMyMemory(endpoint string, httpClient *http.Client) *MyMemory {
	if endpoint == "" {
		endpoint = MyMemoryEndpoint
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &MyMemory{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name
func (m *MyMemory) Name() string {
	return "mymemory"
}

// Translate requests a translation of text
func (m *MyMemory) Translate(ctx context.Context, text, from, to string) Result {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", from+"|"+to)
	reqURL := m.endpoint + "/get?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Failed(fmt.Errorf("create request: %w", err))
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Failed(fmt.Errorf("mymemory request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failed(fmt.Errorf("mymemory returned status %d", resp.StatusCode))
	}

	var body myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Failed(fmt.Errorf("decode mymemory response: %w", err))
	}

	// The service reports quota and validation errors in the body
	if status := body.ResponseStatus.String(); status != "" && status != "200" {
		return Failed(fmt.Errorf("mymemory status %s: %s", status, body.ResponseDetails))
	}

	text = strings.TrimSpace(body.ResponseData.TranslatedText)
	if text == "" {
		return Failed(fmt.Errorf("mymemory returned no translation"))
	}
	return Result{Text: text}
}
