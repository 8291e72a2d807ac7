// Package match implements semantic profile matching. Queries are embedded
// and compared against stored profile embeddings, either locally or through
// a hosted vector search service.
package match

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type OpenAIEmbedder struct {
	client openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(model string) *OpenAIEmbedder {
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}

	if len(res.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embeddings")
	}

	return res.Data[0].Embedding, nil
}
