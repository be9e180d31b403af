package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadArenaConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `models:
  - label: GPT-4o
    identifier: gpt-4o
  - label: Claude Sonnet
    identifier: claude-sonnet-4-5
    provider: anthropic

queries:
  - "What is 2+2?"
  - "Name a prime number."

defaults:
  temperature: 0.0
  max_tokens: 128

judge:
  default_label: Claude Sonnet
`)
	t.Setenv("ARENA_CONFIG_PATH", configPath)

	cfg, err := LoadArenaConfig()
	if err != nil {
		t.Fatalf("LoadArenaConfig() failed: %v", err)
	}

	if len(cfg.Models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(cfg.Models))
	}
	if cfg.Models[0].Provider != "openai" {
		t.Errorf("Expected default provider 'openai', got '%s'", cfg.Models[0].Provider)
	}
	if cfg.Models[1].Provider != "anthropic" {
		t.Errorf("Expected provider 'anthropic', got '%s'", cfg.Models[1].Provider)
	}
	if len(cfg.Queries) != 2 {
		t.Errorf("Expected 2 queries, got %d", len(cfg.Queries))
	}

	// explicit zero temperature must not be replaced by the default
	if cfg.Defaults.Temperature == nil || *cfg.Defaults.Temperature != 0.0 {
		t.Errorf("Expected temperature=0.0, got %v", cfg.Defaults.Temperature)
	}
	if cfg.Defaults.MaxTokens != 128 {
		t.Errorf("Expected max_tokens=128, got %d", cfg.Defaults.MaxTokens)
	}
	if cfg.Judge.DefaultLabel != "Claude Sonnet" {
		t.Errorf("Expected default judge 'Claude Sonnet', got '%s'", cfg.Judge.DefaultLabel)
	}
	if cfg.Judge.Prompt != DefaultJudgePrompt {
		t.Error("Expected default judge prompt")
	}
	if cfg.Broadcast.Concurrency != 2 {
		t.Errorf("Expected concurrency=2, got %d", cfg.Broadcast.Concurrency)
	}
}

func TestLoadArenaConfig_DefaultPath(t *testing.T) {
	t.Setenv("ARENA_CONFIG_PATH", "")

	_, err := LoadArenaConfig()
	if err == nil {
		t.Log("Default config file loaded successfully")
		return
	}
	if !strings.Contains(err.Error(), DefaultConfigPath) {
		t.Errorf("Expected error to mention default path '%s', got: %v", DefaultConfigPath, err)
	}
}

func TestLoadArenaConfig_FileNotFound(t *testing.T) {
	t.Setenv("ARENA_CONFIG_PATH", "/nonexistent/path/arena.yaml")

	_, err := LoadArenaConfig()
	if err == nil {
		t.Fatal("Expected error for nonexistent config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected 'failed to read config file' error, got: %v", err)
	}
}

func TestLoadArenaConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `models:
  - label: test
    identifier: "test"
    invalid_indent:
  wrong_level
`)
	t.Setenv("ARENA_CONFIG_PATH", configPath)

	_, err := LoadArenaConfig()
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func validConfig() *ArenaConfig {
	cfg := &ArenaConfig{
		Models: []ModelConfig{
			{Label: "GPT-4", Identifier: "gpt-4"},
			{Label: "GPT-4o", Identifier: "gpt-4o"},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ArenaConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *ArenaConfig) {},
		},
		{
			name:    "no models",
			mutate:  func(cfg *ArenaConfig) { cfg.Models = nil },
			wantErr: "no models configured",
		},
		{
			name:    "missing label",
			mutate:  func(cfg *ArenaConfig) { cfg.Models[1].Label = "" },
			wantErr: "missing label",
		},
		{
			name:    "missing identifier",
			mutate:  func(cfg *ArenaConfig) { cfg.Models[1].Identifier = "" },
			wantErr: "missing identifier",
		},
		{
			name:    "duplicate label",
			mutate:  func(cfg *ArenaConfig) { cfg.Models[1].Label = "GPT-4" },
			wantErr: "duplicate model label",
		},
		{
			name:    "unknown provider",
			mutate:  func(cfg *ArenaConfig) { cfg.Models[0].Provider = "mistral" },
			wantErr: "unknown provider",
		},
		{
			name: "identifier bound to two providers",
			mutate: func(cfg *ArenaConfig) {
				cfg.Models = append(cfg.Models, ModelConfig{Label: "Other", Identifier: "gpt-4", Provider: "bedrock"})
			},
			wantErr: "bound to providers",
		},
		{
			name: "shared identifier on one provider",
			mutate: func(cfg *ArenaConfig) {
				cfg.Models = append(cfg.Models, ModelConfig{Label: "Alias", Identifier: "gpt-4", Provider: "openai"})
			},
		},
		{
			name:    "negative max_tokens",
			mutate:  func(cfg *ArenaConfig) { cfg.Defaults.MaxTokens = -100 },
			wantErr: "negative max_tokens",
		},
		{
			name:    "invalid prompt template",
			mutate:  func(cfg *ArenaConfig) { cfg.Judge.Prompt = "{{.InvalidSyntax" },
			wantErr: "invalid prompt template",
		},
		{
			name:    "unregistered default judge",
			mutate:  func(cfg *ArenaConfig) { cfg.Judge.DefaultLabel = "Nope" },
			wantErr: "not a registered model label",
		},
		{
			name:    "negative concurrency",
			mutate:  func(cfg *ArenaConfig) { cfg.Broadcast.Concurrency = -1 },
			wantErr: "negative broadcast concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing '%s'", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected '%s' error, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_InvalidTemperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
	}{
		{"negative", -0.1},
		{"too high", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			temperature := tt.temperature
			cfg.Defaults.Temperature = &temperature

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Expected validation error for temperature=%f", tt.temperature)
			}
			if !strings.Contains(err.Error(), "invalid temperature") {
				t.Errorf("Expected 'invalid temperature' error, got: %v", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &ArenaConfig{
		Models: []ModelConfig{
			{Label: "A", Identifier: "a-1"},
			{Label: "B", Identifier: "b-1", Provider: "bedrock"},
			{Label: "C", Identifier: "c-1"},
		},
	}

	applyDefaults(cfg)

	if cfg.Defaults.Temperature == nil || *cfg.Defaults.Temperature != models.DefaultTemperature {
		t.Errorf("Expected default temperature=%f, got %v", models.DefaultTemperature, cfg.Defaults.Temperature)
	}
	if cfg.Defaults.MaxTokens != models.DefaultMaxOutputTokens {
		t.Errorf("Expected default max_tokens=%d, got %d", models.DefaultMaxOutputTokens, cfg.Defaults.MaxTokens)
	}
	if cfg.Models[0].Provider != "openai" || cfg.Models[2].Provider != "openai" {
		t.Error("Expected missing providers to default to openai")
	}
	if cfg.Models[1].Provider != "bedrock" {
		t.Errorf("Expected explicit provider to be kept, got '%s'", cfg.Models[1].Provider)
	}
	if cfg.Judge.DefaultLabel != "A" {
		t.Errorf("Expected first model as default judge, got '%s'", cfg.Judge.DefaultLabel)
	}
	if cfg.Broadcast.Concurrency != 3 {
		t.Errorf("Expected concurrency=3, got %d", cfg.Broadcast.Concurrency)
	}
}

func TestArenaConfig_OptionsAndProviders(t *testing.T) {
	cfg := &ArenaConfig{
		Models: []ModelConfig{
			{Label: "A", Identifier: "a-1", Provider: "openai"},
			{Label: "B", Identifier: "b-1", Provider: "anthropic"},
			{Label: "C", Identifier: "c-1", Provider: "openai"},
		},
		Defaults: DispatchConfig{MaxTokens: 64},
	}

	opts := cfg.Options()
	if opts.MaxOutputTokens != 64 {
		t.Errorf("Expected max output tokens=64, got %d", opts.MaxOutputTokens)
	}
	if opts.Temperature != models.DefaultTemperature {
		t.Errorf("Expected temperature=%f, got %f", models.DefaultTemperature, opts.Temperature)
	}

	providers := cfg.Providers()
	if len(providers) != 2 || providers[0] != models.ProviderOpenAI || providers[1] != models.ProviderAnthropic {
		t.Errorf("Expected [openai anthropic], got %v", providers)
	}
}
