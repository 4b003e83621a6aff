package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 4000, cfg.BackoffBaseMs)
	assert.Equal(t, 10000, cfg.BackoffMaxMs)
	assert.Equal(t, 0.1, cfg.Tasks[TaskExtraction].Temperature)
	assert.Empty(t, ProvidersFromConfig(cfg), "no credentials, no providers")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DEALFLOW_LLM_PROVIDER", "OpenAI")
	t.Setenv("DEALFLOW_LLM_FALLBACKS", "ollama, bogus ,anthropic")
	t.Setenv("DEALFLOW_LLM_TIMEOUT_MS", "9000")
	t.Setenv("DEALFLOW_LLM_ANALYSIS_TIMEOUT_MS", "15000")
	t.Setenv("DEALFLOW_LLM_MAX_ATTEMPTS", "5")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DEALFLOW_LLM_OLLAMA_ENDPOINT", "http://localhost:11434")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, []ProviderName{ProviderOllama, ProviderAnthropic}, cfg.Fallbacks)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskAnalysis))
	assert.Equal(t, 60000, cfg.TaskTimeout(TaskExtraction))
	assert.Equal(t, 5, cfg.MaxAttempts)

	var names []ProviderName
	for _, p := range ProvidersFromConfig(cfg) {
		names = append(names, p.Name())
	}
	assert.Equal(t, []ProviderName{ProviderOpenAI, ProviderOllama}, names)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("DEALFLOW_LLM_PROVIDER", "deepseek")
	t.Setenv("DEALFLOW_LLM_EXTRACTION_TIMEOUT_MS", "not-a-number")
	t.Setenv("DEALFLOW_LLM_MAX_ATTEMPTS", "0")

	cfg := LoadConfig()

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, 60000, cfg.TaskTimeout(TaskExtraction))
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("DEALFLOW_LLM_ENABLED", "false")
	t.Setenv("ANTHROPIC_API_KEY", "key")
	assert.Empty(t, ProvidersFromConfig(LoadConfig()))
}
