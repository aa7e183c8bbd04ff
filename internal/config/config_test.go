package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.RecordsFile != "booking_records.jsonl" {
		t.Errorf("RecordsFile = %q", cfg.RecordsFile)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".intake.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want defaults", cfg.Provider)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".intake.yml")
	content := `provider: anthropic
model: claude-sonnet-4-5-20250929
quality: max
records_file: bookings.jsonl
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Quality != QualityMax {
		t.Errorf("Quality = %q", cfg.Quality)
	}
	if cfg.RecordsFile != "bookings.jsonl" {
		t.Errorf("RecordsFile = %q", cfg.RecordsFile)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	// Values not in the file keep their defaults.
	if cfg.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want default 30", cfg.RequestsPerMinute)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INTAKE_PROVIDER", "ollama")
	t.Setenv("INTAKE_MODEL", "llama3")

	cfg, err := Load(filepath.Join(t.TempDir(), ".intake.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want env override", cfg.Provider)
	}
	if cfg.Model != "llama3" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".intake.yml")

	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	cfg.Model = "claude-sonnet-4-5-20250929"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != cfg.Provider || loaded.Model != cfg.Model {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "mystery" }, true},
		{"missing model", func(c *Config) { c.Model = "" }, true},
		{"bad embedding provider", func(c *Config) { c.EmbeddingProvider = "anthropic" }, true},
		{"bad quality", func(c *Config) { c.Quality = "ultra" }, true},
		{"missing records file", func(c *Config) { c.RecordsFile = "" }, true},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 99999 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	if m := GetPreset(ProviderAnthropic, QualityLite); m != "claude-haiku-4-5-20251001" {
		t.Errorf("preset = %q", m)
	}
	// Unknown combinations fall back to a usable model.
	if m := GetPreset("mystery", QualityMax); m == "" {
		t.Error("fallback preset empty")
	}
}
