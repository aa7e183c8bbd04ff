// Package embeddings generates text embeddings for the booking search
// index, with OpenAI, Google and local Ollama backends.
package embeddings

import (
	"context"
	"fmt"
	"os"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// NewEmbedder creates an embedder for the named provider. API keys come
// from the environment.
func NewEmbedder(provider string) (Embedder, error) {
	switch provider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return NewOpenAIEmbedder(key, ModelTextEmbedding3Small), nil
	case "google":
		key := os.Getenv("GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY not set")
		}
		return NewGoogleEmbedder(key, ModelGeminiEmbedding001), nil
	case "ollama":
		return NewOllamaEmbedder("nomic-embed-text", 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
