package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini translates with a Google Gemini model
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini translator. baseURL may be empty.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

// Name returns the provider name
func (g *Gemini) Name() string {
	return "gemini"
}

// Translate asks the model for a bare translation of text
func (g *Gemini) Translate(ctx context.Context, text, from, to string) Result {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt(text, from, to)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return Failed(fmt.Errorf("Gemini API error: %w", err))
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return Failed(fmt.Errorf("no translation returned"))
	}
	return Result{Text: translated}
}
