package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI translates with a chat completion model
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI translator. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "openai"
}

// Translate asks the model for a bare translation of text
func (o *OpenAI) Translate(ctx context.Context, text, from, to string) Result {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(text, from, to),
			},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Failed(fmt.Errorf("OpenAI API error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return Failed(fmt.Errorf("no translation returned"))
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return Failed(fmt.Errorf("no translation returned"))
	}
	return Result{Text: translated}
}

var languageNames = map[string]string{
	"fr": "French",
	"en": "English",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// prompt is shared by the model based translators
func prompt(text, from, to string) string {
	return fmt.Sprintf("Translate the following %s text to %s. Respond with only the %s translation, nothing else.\n\n%s",
		languageName(from), languageName(to), languageName(to), text)
}
