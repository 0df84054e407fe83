package brain

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

type geminiBackend struct {
	key   string
	model string
}

func newGeminiBackend(apiKey, model string) *geminiBackend {
	return &geminiBackend{key: apiKey, model: model}
}

func (b *geminiBackend) Configured() bool { return b.key != "" }

func (b *geminiBackend) Complete(ctx context.Context, system string, history []session.Entry, user string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: b.key})
	if err != nil {
		return "", fmt.Errorf("genai client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, e := range history {
		var role genai.Role = genai.RoleUser
		if e.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(e.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(user, genai.RoleUser))

	resp, err := client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}
