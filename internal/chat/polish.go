package chat

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const polishSystemPrompt = "You are FloatChat, an assistant for exploring ARGO ocean float data. " +
	"Rephrase the draft answer below into a clear, friendly reply to the user's question. " +
	"Keep every number, statistic, and factual claim from the draft exactly as given. " +
	"Do not invent data."

// LLMPolisher rephrases agent answers through a chat model. It implements
// agents.Polisher.
type LLMPolisher struct {
	client *openai.LLM
}

func NewLLMPolisher(model, apiKey string) (*LLMPolisher, error) {
	client, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}
	return &LLMPolisher{client: client}, nil
}

func (p *LLMPolisher) Polish(ctx context.Context, query, answer string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, polishSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("Question: %s\n\nDraft answer:\n%s", query, answer)),
	}

	resp, err := p.client.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return resp.Choices[0].Content, nil
}
