package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .intake.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to intake! Let's configure your booking assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   — fast & cheap (haiku / gpt-4o-mini)",
			"normal — balanced (sonnet / gpt-4o)",
			"max    — highest quality (opus / gpt-4)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]

	// 3. Records file.
	recordsPrompt := promptui.Prompt{
		Label:   "Booking journal file",
		Default: "booking_records.jsonl",
	}
	recordsFile, err := recordsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("records file: %w", err)
	}

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (database and search index)",
		Default: ".intake",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 5. Rate limit.
	rpmPrompt := promptui.Prompt{
		Label:   "Max model requests per minute (0 for unlimited)",
		Default: "30",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	rpmStr, err := rpmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	rpm, _ := strconv.Atoi(rpmStr)

	// Build the config.
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = GetPreset(provider, quality)
	cfg.EmbeddingProvider = embeddingProviderFor(provider)
	cfg.Quality = quality
	cfg.DataDir = dataDir
	cfg.RecordsFile = recordsFile
	cfg.RequestsPerMinute = rpm

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running intake book.\n", envVar)
		}
	}

	// Save to .intake.yml.
	configPath := ".intake.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider. OpenAI embeddings are used for all cloud providers.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}
