package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldops/intake/internal/config"
	"github.com/fieldops/intake/internal/embeddings"
	"github.com/fieldops/intake/internal/llm"
	"github.com/fieldops/intake/internal/progress"
	"github.com/fieldops/intake/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `intake init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProviderFromConfig builds the chat provider with rate limiting
// applied per the config.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}
	return provider, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = embeddingFallbackFor(cfg.Provider)
	}
	return embeddings.NewEmbedder(string(provider))
}

func embeddingFallbackFor(p config.ProviderType) config.ProviderType {
	if p == config.ProviderOllama {
		return config.ProviderOllama
	}
	return config.ProviderOpenAI
}

// openSearchIndex creates the vector store and loads the persisted
// index when one exists. Returns nil when no embedder is available;
// semantic search is then disabled rather than fatal.
func openSearchIndex(ctx context.Context, cfg *config.Config) vectordb.VectorStore {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "semantic search disabled: %v\n", err)
		}
		return nil
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: creating search index: %v\n", err)
		return nil
	}

	vectorDir := vectorDirFor(cfg)
	if _, statErr := os.Stat(filepath.Join(vectorDir, "chromem.gob.gz")); statErr == nil {
		if err := store.Load(ctx, vectorDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load search index from %s: %v\n", vectorDir, err)
		}
	}
	return store
}

// persistSearchIndex writes the index back to disk.
func persistSearchIndex(ctx context.Context, cfg *config.Config, store vectordb.VectorStore) error {
	dir := vectorDirFor(cfg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return store.Persist(ctx, dir)
}

func dbPathFor(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "intake.db")
}

func vectorDirFor(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

// spinnerProvider wraps a Provider and shows a spinner while a
// completion is in flight, so the user sees activity between questions.
type spinnerProvider struct {
	provider llm.Provider
}

func (s *spinnerProvider) Name() string { return s.provider.Name() }

func (s *spinnerProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	sp := progress.NewSpinner("thinking")
	defer sp.Stop()
	return s.provider.Complete(ctx, req)
}
