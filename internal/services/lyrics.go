// OpenAI implementation of [Completer] for lyric generation

package services

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"tracksmartin/internal/shared"
)

const defaultLyricsModel = openai.GPT4oMini

// LyricsService wraps the OpenAI chat completion API behind the narrow
// [Completer] contract. Failures surface in the same transient/permanent
// taxonomy as the generation service.
type LyricsService struct {
	client *openai.Client
	model  string
}

// NewLyricsService creates a lyric completion client. The key is required;
// callers that can live without auto-lyrics should treat the returned
// [shared.ErrMissingCredentials] as a soft failure.
func NewLyricsService(apiKey, model string) (*LyricsService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_KEY not set", shared.ErrMissingCredentials)
	}
	if model == "" {
		model = defaultLyricsModel
	}

	return &LyricsService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Complete sends one system+user chat exchange and returns the raw text.
func (s *LyricsService) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: temperature,
		MaxTokens:   1500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", shared.ErrMalformed)
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == 429 {
			return fmt.Errorf("%w: %v", shared.ErrTransient, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrPermanent, err)
	}
	// Network-level failures are retryable.
	return fmt.Errorf("%w: %v", shared.ErrTransient, err)
}
