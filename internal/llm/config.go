package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskAnalysis   TaskType = "analysis"
	TaskExtraction TaskType = "extraction"
	TaskReport     TaskType = "report"
)

// ProviderName identifies a text-generation backend.
type ProviderName string

const (
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOpenAI    ProviderName = "openai"
	ProviderOllama    ProviderName = "ollama"
)

// ParseProviderName accepts a provider name case-insensitively.
func ParseProviderName(s string) (ProviderName, bool) {
	switch p := ProviderName(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
		return p, true
	default:
		return "", false
	}
}

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// ProviderConfig holds connection settings for one provider. A cloud
// provider without an API key, or ollama without an endpoint, is not
// registered.
type ProviderConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled  bool
	LogCalls bool

	// Provider is tried first; Fallbacks are tried in order after it.
	Provider  ProviderName
	Fallbacks []ProviderName

	TimeoutMs     int
	MaxAttempts   int
	BackoffBaseMs int
	BackoffMaxMs  int

	Anthropic ProviderConfig
	OpenAI    ProviderConfig
	Ollama    ProviderConfig

	Tasks map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. No provider
// is usable until an API key or ollama endpoint is supplied.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:       true,
		Provider:      ProviderAnthropic,
		Fallbacks:     []ProviderName{ProviderOpenAI, ProviderOllama},
		TimeoutMs:     60000,
		MaxAttempts:   3,
		BackoffBaseMs: 4000,
		BackoffMaxMs:  10000,
		Anthropic: ProviderConfig{
			Model:    "claude-sonnet-4-20250514",
			Endpoint: "https://api.anthropic.com/v1/messages",
		},
		OpenAI: ProviderConfig{
			Model:    "gpt-4-turbo-preview",
			Endpoint: "https://api.openai.com/v1/chat/completions",
		},
		Ollama: ProviderConfig{
			Model: "llama3.2",
		},
		Tasks: map[TaskType]TaskConfig{
			TaskAnalysis:   {Temperature: 0.3, MaxTokens: 4000, TimeoutMs: 120000},
			TaskExtraction: {Temperature: 0.1, MaxTokens: 2000, TimeoutMs: 60000},
			TaskReport:     {Temperature: 0.3, MaxTokens: 3500, TimeoutMs: 90000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("DEALFLOW_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("DEALFLOW_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("DEALFLOW_LLM_PROVIDER"); v != "" {
		if p, ok := ParseProviderName(v); ok {
			cfg.Provider = p
		}
	}
	if v, ok := os.LookupEnv("DEALFLOW_LLM_FALLBACKS"); ok {
		cfg.Fallbacks = parseProviderList(v)
	}
	if v := os.Getenv("DEALFLOW_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("DEALFLOW_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}

	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	applyStringEnv(&cfg.Anthropic.Model, "DEALFLOW_LLM_ANTHROPIC_MODEL")
	applyStringEnv(&cfg.OpenAI.Model, "DEALFLOW_LLM_OPENAI_MODEL")
	applyStringEnv(&cfg.Ollama.Endpoint, "DEALFLOW_LLM_OLLAMA_ENDPOINT")
	applyStringEnv(&cfg.Ollama.Model, "DEALFLOW_LLM_OLLAMA_MODEL")

	applyTaskTimeoutEnv(&cfg, TaskAnalysis, "DEALFLOW_LLM_ANALYSIS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskExtraction, "DEALFLOW_LLM_EXTRACTION_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskReport, "DEALFLOW_LLM_REPORT_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyStringEnv(dst *string, envName string) {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		*dst = v
	}
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

func parseProviderList(v string) []ProviderName {
	var out []ProviderName
	for _, part := range strings.Split(v, ",") {
		if p, ok := ParseProviderName(part); ok {
			out = append(out, p)
		}
	}
	return out
}
