package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/config"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/dispatch"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/executor"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/judge"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm/claude"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/metrics"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Config struct {
	ArenaConfigPath string
	LogLevel        string
	AWSRegion       string
	OpenAIKey       string
	OpenAIBaseURL   string
	AnthropicKey    string
	APIPort         int
	RedisAddr       string
	RedisPassword   string
}

type Dependencies struct {
	Arena           *config.ArenaConfig
	Registry        *registry.Registry
	Executor        *executor.Executor
	Metrics         *metrics.Metrics
	MetricsRegistry *prometheus.Registry
	Logger          *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		ArenaConfigPath: getEnv("ARENA_CONFIG_PATH", config.DefaultConfigPath),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
		APIPort:         getEnvInt("ARENA_API_PORT", 18080),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
	}
}

// Wire loads the arena configuration, creates one client per provider in use
// and assembles the orchestration flow.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	arena, err := config.LoadArenaConfigFile(cfg.ArenaConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load arena config: %w", err)
	}

	clients := make(map[models.Provider]llm.LLMClient)
	for _, provider := range arena.Providers() {
		client, err := createLLMClient(ctx, provider, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
		}
		clients[provider] = client
	}

	return Build(arena, clients, logger)
}

// Build assembles the dependencies from an already loaded arena config and
// provider clients.
func Build(arena *config.ArenaConfig, clients map[models.Provider]llm.LLMClient, logger *zerolog.Logger) (*Dependencies, error) {
	reg, err := registry.FromConfig(arena)
	if err != nil {
		return nil, fmt.Errorf("failed to build model registry: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	opts := arena.Options()
	dispatcher := dispatch.New(clients, reg.Entries(), logger, m)

	j, err := judge.New(reg, dispatcher, arena.Judge.Prompt, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge: %w", err)
	}

	exec := executor.NewExecutor(reg, dispatcher, j, opts, arena.Broadcast.Concurrency, m, logger)

	logger.Info().
		Strs("models", reg.Labels()).
		Str("defaultJudge", arena.Judge.DefaultLabel).
		Int("concurrency", arena.Broadcast.Concurrency).
		Msg("arena wired")

	return &Dependencies{
		Arena:           arena,
		Registry:        reg,
		Executor:        exec,
		Metrics:         m,
		MetricsRegistry: promRegistry,
		Logger:          logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider models.Provider, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case models.ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	case models.ProviderAnthropic:
		return claude.NewClient(cfg.AnthropicKey)
	case models.ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
