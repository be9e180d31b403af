package config

// ArenaConfig represents the complete arena configuration
type ArenaConfig struct {
	Models    []ModelConfig   `yaml:"models"`
	Queries   []string        `yaml:"queries"`
	Defaults  DispatchConfig  `yaml:"defaults"`
	Judge     JudgeConfig     `yaml:"judge"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
}

// ModelConfig registers one model under a display label
type ModelConfig struct {
	Label      string `yaml:"label"`
	Identifier string `yaml:"identifier"`
	Provider   string `yaml:"provider"`
}

// DispatchConfig holds the sampling settings used for every completion call.
// Temperature is a pointer so an explicit 0.0 survives applyDefaults.
type DispatchConfig struct {
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// JudgeConfig contains the judging prompt template and the preselected judge
type JudgeConfig struct {
	DefaultLabel string `yaml:"default_label"`
	Prompt       string `yaml:"prompt"`
}

type BroadcastConfig struct {
	Concurrency int `yaml:"concurrency"`
}
