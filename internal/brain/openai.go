package brain

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

// OpenRouter speaks the OpenAI wire protocol; the openrouter and mistral
// backends differ from gpt only in base URL and model name.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

type openAIBackend struct {
	client openai.Client
	model  string
	key    string
}

func newOpenAIBackend(apiKey, baseURL, model string, httpClient *http.Client) *openAIBackend {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &openAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
		key:    apiKey,
	}
}

func (b *openAIBackend) Configured() bool { return b.key != "" }

func (b *openAIBackend) Complete(ctx context.Context, system string, history []session.Entry, user string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(system))
	for _, e := range history {
		if e.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(e.Content))
		} else {
			messages = append(messages, openai.UserMessage(e.Content))
		}
	}
	messages = append(messages, openai.UserMessage(user))

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(b.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}
	return content, nil
}
