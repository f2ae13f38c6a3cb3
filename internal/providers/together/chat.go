package together

import (
	"context"
	"strings"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ideaPrompt struct {
	system string
	user   string
}

var ideaPrompts = map[string]ideaPrompt{
	"pt": {
		system: "Você cria ideias curtas em português para gerar prompts visuais. Retorne apenas uma ideia concisa.",
		user:   "Sugira uma ideia curta, criativa e específica para gerar imagens de IA. Mencione personagem, ação e ambiente.",
	},
	"en": {
		system: "You write short ideas in English for visual prompts. Return only one concise idea.",
		user:   "Suggest a short, creative and specific idea for AI image generation. Mention a character, an action and a setting.",
	},
}

// SuggestIdea asks the chat model for one short image idea in locale ("pt"
// or "en"; anything else is treated as "pt").
func (c *Client) SuggestIdea(ctx context.Context, locale string) (string, error) {
	p, ok := ideaPrompts[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		p = ideaPrompts["pt"]
	}
	payload := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: p.system},
			{Role: "user", Content: p.user},
		},
		Temperature: 0.8,
		MaxTokens:   150,
	}
	var out chatResponse
	if err := c.post(ctx, "/chat/completions", payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
