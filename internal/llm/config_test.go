package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4o-mini", config.GetModel(TierStandard))
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderGemini, ConfigFor("gemini").Provider)
	assert.Equal(t, "gemini-2.5-flash", ConfigFor("gemini").GetModel(TierStandard))
	assert.Equal(t, ProviderOpenAI, ConfigFor("openai").Provider)
	assert.Equal(t, ProviderOpenAI, ConfigFor("").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultGeminiConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
}

func TestWithAllModels(t *testing.T) {
	config := DefaultOpenAIConfig()
	config.BaseURL = "http://gateway"
	newConfig := config.WithAllModels("gpt-4.1-mini")

	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		assert.Equal(t, "gpt-4.1-mini", newConfig.GetModel(tier))
	}
	assert.Equal(t, "http://gateway", newConfig.BaseURL)
	assert.Equal(t, "gpt-4o", config.GetModel(TierAdvanced))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(t.Context(), DefaultOpenAIConfig(), "")
	assert.Error(t, err)

	_, err = NewClient(t.Context(), &Config{Provider: "anthropic"}, "key")
	assert.Error(t, err)

	client, err := NewClient(t.Context(), DefaultOpenAIConfig(), "key")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.GetModel(TierStandard))
	assert.NoError(t, client.Close())
}
