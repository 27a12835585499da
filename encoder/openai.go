// Package encoder provides the query encoders used by hybrid retrieval: a
// dense embedder over the OpenAI embeddings API and a sparse lexical encoder
// over an HTTP encoding service.
package encoder

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder produces dense vectors via the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client    *goopenai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder creates an embedder for the given model and output
// dimensionality. The dimension is passed to the API so the server truncates
// to the collection's vector size.
func NewOpenAIEmbedder(client *goopenai.Client, model string, dimension int) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model, dimension: dimension}
}

// Embed returns the dense vector for a text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input:      []string{text},
		Model:      goopenai.EmbeddingModel(e.model),
		Dimensions: e.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("create embeddings: empty data")
	}
	return resp.Data[0].Embedding, nil
}

// Dimension returns the vector dimensionality.
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}
