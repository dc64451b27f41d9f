// Package summarizer sends the formatted transcript to a language model and
// returns its free-form reply. The reply may or may not honour the requested
// structure; deciding that is the parser's job, not this package's.
package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
)

// Message is one chat message of the summarization request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client abstracts the summarization provider.
type Client interface {
	Summarize(ctx context.Context, messages []Message) (string, error)
}

// Config for the OpenAI-backed client. BaseURL is optional and points the
// client at a gateway when set.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient talks to an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	cli   *openai.Client
	model string
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		cli:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

func (c *OpenAIClient) Summarize(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pferrors.ErrSummarizationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", pferrors.ErrSummarizationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// MockClient returns a canned structured reply for offline demos, selected
// with USE_MOCK_LLM.
type MockClient struct{}

func (MockClient) Summarize(ctx context.Context, messages []Message) (string, error) {
	return `{"summary":"Mock analysis of the meeting.","decision":["proceed with the current plan"],"actions":["circulate notes to the team"],"explicit":["the deadline is next friday"],"tacit":["the team assumes weekly syncs continue"],"reasoning":"mock mode, no model was called","suggestions":["record decisions in the tracker"]}`, nil
}
