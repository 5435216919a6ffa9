package embedding

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Provider produces a dense vector representation of a question text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type openAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIProvider builds a Provider over the OpenAI embeddings API using
// the small embedding model.
func NewOpenAIProvider(apiKey string) Provider {
	return &openAIProvider{
		client: openai.NewClient(apiKey),
		model:  openai.SmallEmbedding3,
	}
}

func (p *openAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}

	raw := resp.Data[0].Embedding
	vector := make([]float64, len(raw))
	for i, v := range raw {
		vector[i] = float64(v)
	}
	return vector, nil
}
