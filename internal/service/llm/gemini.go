package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// GeminiProvider generates text through Google's Gemini API. Calls go through
// a circuit breaker so a hard-failing upstream sheds load instead of burning
// the retry budget on every request.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewGeminiProvider creates a provider for the given API key and model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, appErrors.NewValidation("generation API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, appErrors.NewInternal("failed to create generation client", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "gemini",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &GeminiProvider{client: client, model: model, breaker: breaker}, nil
}

// IsAvailable reports whether the provider can serve requests.
func (p *GeminiProvider) IsAvailable() bool {
	return p.client != nil
}

// Complete sends the prompt to the model and returns the raw generated text.
// Throttling surfaces as a RateLimited error so the engine's retry policy can
// back off; an open circuit aborts without retry.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error) {
	config := &genai.GenerateContentConfig{}
	if options.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(options.Temperature))
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", appErrors.NewInternal("generation capability is shedding load", err)
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
				return "", appErrors.NewRateLimited("generation API throttled the request", err)
			}
		}
		return "", appErrors.NewInternal("generation request failed", err)
	}

	resp, ok := result.(*genai.GenerateContentResponse)
	if !ok || resp == nil {
		return "", appErrors.NewInternal("generation returned no response", nil)
	}
	text := resp.Text()
	if text == "" {
		return "", appErrors.NewInternal("generation returned empty output", nil)
	}
	return text, nil
}
