package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weaverapp/backend/domain"
)

// CompletionAPI is the slice of the OpenAI client surface the chat pipeline
// depends on.
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds completion-service settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
}

// Client produces stateful conversation handles bound to a completion model.
type Client struct {
	api     CompletionAPI
	model   string
	timeout time.Duration
}

// NewClient builds a Client backed by the OpenAI-compatible API described in cfg.
func NewClient(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newClient(openai.NewClientWithConfig(clientCfg), cfg.Model, cfg.RequestTimeout)
}

// NewClientWithAPI wires an explicit CompletionAPI, used by tests.
func NewClientWithAPI(api CompletionAPI, model string, timeout time.Duration) *Client {
	return newClient(api, model, timeout)
}

func newClient(api CompletionAPI, model string, timeout time.Duration) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:     api,
		model:   model,
		timeout: timeout,
	}
}

// StartConversation opens a fresh model-side context seeded with the given
// system prompt.
func (c *Client) StartConversation(systemPrompt string) *Conversation {
	conv := &Conversation{client: c}
	if systemPrompt != "" {
		conv.history = append(conv.history, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	return conv
}

// Conversation is an ordered, mutable model-side context. It is not safe for
// concurrent use; callers serialize turns per session through the
// ConversationCache.
type Conversation struct {
	client  *Client
	history []openai.ChatCompletionMessage
}

// Send submits one user message and returns the assistant text. The handle
// only retains the exchange after a successful round trip, so a failed turn
// leaves the context unchanged.
func (conv *Conversation) Send(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, conv.client.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, len(conv.history), len(conv.history)+1)
	copy(messages, conv.history)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := conv.client.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    conv.client.model,
		Messages: messages,
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeUpstream, "assistant generation failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewError(domain.ErrCodeUpstream, "assistant returned no choices")
	}

	text := resp.Choices[0].Message.Content
	conv.history = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: text,
	})
	return text, nil
}

// Turns reports how many user/assistant exchanges the handle retains.
func (conv *Conversation) Turns() int {
	n := 0
	for _, m := range conv.history {
		if m.Role == openai.ChatMessageRoleAssistant {
			n++
		}
	}
	return n
}
