package config

import (
	"fmt"
	"os"
	"text/template"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/arena.yaml"

// DefaultJudgePrompt is rendered with the user query; the judged responses are
// appended after it.
const DefaultJudgePrompt = `You are tasked to be a judge, to evaluate responses from different LLM models.
You have to rate the models based on their answers, reasoning, logic, hallucinations and inference on a scale of 10.
Rate the models based on their responses to the user query on a scale of 10.
Also, provide the name of the winning model.

User Query: {{.Query}}
`

func LoadArenaConfig() (*ArenaConfig, error) {
	path := os.Getenv("ARENA_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadArenaConfigFile(path)
}

func LoadArenaConfigFile(path string) (*ArenaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ArenaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *ArenaConfig) {
	if cfg.Defaults.Temperature == nil {
		temperature := models.DefaultTemperature
		cfg.Defaults.Temperature = &temperature
	}
	if cfg.Defaults.MaxTokens == 0 {
		cfg.Defaults.MaxTokens = models.DefaultMaxOutputTokens
	}
	if cfg.Judge.Prompt == "" {
		cfg.Judge.Prompt = DefaultJudgePrompt
	}

	for i := range cfg.Models {
		if cfg.Models[i].Provider == "" {
			cfg.Models[i].Provider = string(models.ProviderOpenAI)
		}
	}

	if cfg.Judge.DefaultLabel == "" && len(cfg.Models) > 0 {
		cfg.Judge.DefaultLabel = cfg.Models[0].Label
	}
	if cfg.Broadcast.Concurrency == 0 {
		cfg.Broadcast.Concurrency = len(cfg.Models)
	}
}

func (c *ArenaConfig) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}

	labels := make(map[string]bool)
	providers := make(map[string]string)
	for i, m := range c.Models {
		if m.Label == "" {
			return fmt.Errorf("model at index %d: missing label", i)
		}
		if m.Identifier == "" {
			return fmt.Errorf("model %s: missing identifier", m.Label)
		}
		if labels[m.Label] {
			return fmt.Errorf("duplicate model label: %s", m.Label)
		}
		labels[m.Label] = true

		switch models.Provider(m.Provider) {
		case models.ProviderOpenAI, models.ProviderAnthropic, models.ProviderBedrock:
		default:
			return fmt.Errorf("model %s: unknown provider %q", m.Label, m.Provider)
		}

		if p, ok := providers[m.Identifier]; ok && p != m.Provider {
			return fmt.Errorf("identifier %s bound to providers %s and %s", m.Identifier, p, m.Provider)
		}
		providers[m.Identifier] = m.Provider
	}

	if c.Defaults.MaxTokens < 0 {
		return fmt.Errorf("negative max_tokens: %d", c.Defaults.MaxTokens)
	}
	if t := c.Defaults.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("invalid temperature %f: must be within [0, 2]", *t)
	}

	if _, err := template.New("judge").Parse(c.Judge.Prompt); err != nil {
		return fmt.Errorf("invalid prompt template: %w", err)
	}

	if c.Judge.DefaultLabel != "" && !labels[c.Judge.DefaultLabel] {
		return fmt.Errorf("default judge %s is not a registered model label", c.Judge.DefaultLabel)
	}

	if c.Broadcast.Concurrency < 0 {
		return fmt.Errorf("negative broadcast concurrency: %d", c.Broadcast.Concurrency)
	}

	return nil
}

// Options returns the dispatch options described by the defaults section.
func (c *ArenaConfig) Options() models.Options {
	opts := models.DefaultOptions()
	if c.Defaults.Temperature != nil {
		opts.Temperature = *c.Defaults.Temperature
	}
	if c.Defaults.MaxTokens > 0 {
		opts.MaxOutputTokens = c.Defaults.MaxTokens
	}
	return opts
}

// Providers returns the distinct providers used by the configured models.
func (c *ArenaConfig) Providers() []models.Provider {
	seen := make(map[string]bool)
	var providers []models.Provider
	for _, m := range c.Models {
		if seen[m.Provider] {
			continue
		}
		seen[m.Provider] = true
		providers = append(providers, models.Provider(m.Provider))
	}
	return providers
}
