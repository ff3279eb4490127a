package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaverapp/backend/domain"
)

// scriptedAPI returns canned responses in order and records every request.
type scriptedAPI struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []openai.ChatCompletionRequest
}

func (s *scriptedAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	if len(s.responses) == 0 {
		return openai.ChatCompletionResponse{}, nil
	}
	text := s.responses[0]
	s.responses = s.responses[1:]
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
		},
	}, nil
}

func TestConversationAccumulatesHistory(t *testing.T) {
	api := &scriptedAPI{responses: []string{"hello!", "sure thing"}}
	client := NewClientWithAPI(api, "test-model", time.Second)

	conv := client.StartConversation("you are a planner")

	first, err := conv.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello!", first)

	second, err := conv.Send(context.Background(), "plan my day")
	require.NoError(t, err)
	assert.Equal(t, "sure thing", second)
	assert.Equal(t, 2, conv.Turns())

	// The second request must replay the full exchange.
	require.Len(t, api.requests, 2)
	msgs := api.requests[1].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
	assert.Equal(t, "hello!", msgs[2].Content)
	assert.Equal(t, "plan my day", msgs[3].Content)
	assert.Equal(t, "test-model", api.requests[1].Model)
}

func TestConversationSendFailureLeavesHistoryUnchanged(t *testing.T) {
	api := &scriptedAPI{err: errors.New("boom")}
	client := NewClientWithAPI(api, "test-model", time.Second)

	conv := client.StartConversation("system")
	_, err := conv.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
	assert.Equal(t, 0, conv.Turns())

	// A later successful turn starts from the seeded context only.
	api.err = nil
	api.responses = []string{"recovered"}
	_, err = conv.Send(context.Background(), "hi again")
	require.NoError(t, err)
	require.Len(t, api.requests, 2)
	assert.Len(t, api.requests[1].Messages, 2)
}

func TestConversationEmptyChoicesIsUpstreamError(t *testing.T) {
	api := &scriptedAPI{}
	client := NewClientWithAPI(api, "", 0)

	conv := client.StartConversation("")
	_, err := conv.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}

func TestConversationCacheSerializesPerSession(t *testing.T) {
	cache := NewConversationCache()
	api := &scriptedAPI{responses: []string{"a", "b"}}
	client := NewClientWithAPI(api, "m", time.Second)

	start := func() *Conversation { return client.StartConversation("p") }

	conv1, release1 := cache.Acquire("s1", start)
	release1()
	conv2, release2 := cache.Acquire("s1", start)
	release2()
	assert.Same(t, conv1, conv2)
	assert.Equal(t, 1, cache.Size())

	_, releaseOther := cache.Acquire("s2", start)
	releaseOther()
	assert.Equal(t, 2, cache.Size())

	cache.Drop("s1")
	assert.Equal(t, 1, cache.Size())
}
