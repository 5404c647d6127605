package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cloudwego/eino/components/model"
)

// Default generation models for the Groq backend.
const (
	defaultGroqModel    = "llama-3.3-70b-versatile"
	defaultGroqFallback = "llama-3.1-8b-instant"
	defaultGroqBaseURL  = "https://api.groq.com/openai/v1"
)

// Models is the resolved pair of chat models for a deployment. Fallback is
// nil when the configuration names no fallback model.
type Models struct {
	Primary  model.BaseChatModel
	Fallback model.BaseChatModel

	// PrimaryName and FallbackName are the resolved model identifiers, kept
	// for logging and error messages.
	PrimaryName  string
	FallbackName string
}

// NewFromEnv constructs the primary/fallback chat model pair by reading
// provider configuration from environment variables. MODEL_PROVIDER selects
// the backend; each provider uses its own native credential env vars.
//
// Environment variables:
//
//	MODEL_PROVIDER                = groq | ollama | openai | azure | ark | gemini (default: groq)
//
//	Groq:    GROQ_API_KEY, GROQ_BASE_URL (default: https://api.groq.com/openai/v1),
//	         GENERATION_MODEL (default: llama-3.3-70b-versatile),
//	         GENERATION_FALLBACK_MODEL (default: llama-3.1-8b-instant)
//	Ollama:  OLLAMA_HOST (default: http://localhost:11434), OLLAMA_MODEL (default: llama3),
//	         GENERATION_FALLBACK_MODEL (default: none)
//	OpenAI:  OPENAI_API_KEY, OPENAI_MODEL (default: gpt-4o), GENERATION_FALLBACK_MODEL
//	Azure:   AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT,
//	         AZURE_OPENAI_API_VERSION (default: 2024-02-01), GENERATION_FALLBACK_MODEL
//	Ark:     ARK_API_KEY, ARK_BASE_URL, ARK_MODEL, GENERATION_FALLBACK_MODEL
//	Gemini:  GOOGLE_API_KEY, GEMINI_MODEL (default: gemini-1.5-pro), GENERATION_FALLBACK_MODEL
//
//	Shared:  MODEL_MAX_TOKENS (default: 2048), MODEL_TEMPERATURE (default: 0.3)
func NewFromEnv(ctx context.Context) (*Models, error) {
	cfg := &Config{
		Backend: Backend(getEnvOrDefault("MODEL_PROVIDER", string(BackendGroq))),
		Groq: ProviderGroq{
			APIKey:        os.Getenv("GROQ_API_KEY"),
			BaseURL:       getEnvOrDefault("GROQ_BASE_URL", defaultGroqBaseURL),
			Model:         getEnvOrDefault("GENERATION_MODEL", defaultGroqModel),
			FallbackModel: getEnvOrDefault("GENERATION_FALLBACK_MODEL", defaultGroqFallback),
		},
		Ollama: ProviderOllama{
			Host:          getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
			Model:         getEnvOrDefault("OLLAMA_MODEL", "llama3"),
			FallbackModel: os.Getenv("GENERATION_FALLBACK_MODEL"),
		},
		OpenAI: ProviderOpenAI{
			APIKey:        os.Getenv("OPENAI_API_KEY"),
			Model:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
			FallbackModel: os.Getenv("GENERATION_FALLBACK_MODEL"),
		},
		AzureOpenAI: ProviderAzureOpenAI{
			APIKey:             os.Getenv("AZURE_OPENAI_API_KEY"),
			Endpoint:           os.Getenv("AZURE_OPENAI_ENDPOINT"),
			Deployment:         os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
			FallbackDeployment: os.Getenv("GENERATION_FALLBACK_MODEL"),
			APIVersion:         getEnvOrDefault("AZURE_OPENAI_API_VERSION", "2024-02-01"),
		},
		Ark: ProviderArk{
			APIKey:        os.Getenv("ARK_API_KEY"),
			BaseURL:       os.Getenv("ARK_BASE_URL"),
			Model:         os.Getenv("ARK_MODEL"),
			FallbackModel: os.Getenv("GENERATION_FALLBACK_MODEL"),
		},
		Gemini: ProviderGemini{
			APIKey:        os.Getenv("GOOGLE_API_KEY"),
			Model:         getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-pro"),
			FallbackModel: os.Getenv("GENERATION_FALLBACK_MODEL"),
		},
		Tuning: GenerationTuning{
			MaxTokens:   getEnvInt("MODEL_MAX_TOKENS", 2048),
			Temperature: getEnvFloat32("MODEL_TEMPERATURE", 0.3),
		},
	}

	return New(ctx, cfg)
}

// New constructs the chat model pair from an explicit Config, delegating to
// the appropriate backend constructor once per model identifier.
func New(ctx context.Context, cfg *Config) (*Models, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	primary, err := newModel(ctx, cfg, "")
	if err != nil {
		return nil, err
	}

	models := &Models{Primary: primary, PrimaryName: cfg.primaryModel()}
	if fb := cfg.fallbackModel(); fb != "" {
		fallback, err := newModel(ctx, cfg, fb)
		if err != nil {
			return nil, fmt.Errorf("provider: constructing fallback model %q: %w", fb, err)
		}
		models.Fallback = fallback
		models.FallbackName = fb
	}

	return models, nil
}

// newModel builds one chat model. An empty override uses the backend's
// primary model identifier; otherwise the override replaces it.
func newModel(ctx context.Context, cfg *Config, override string) (model.BaseChatModel, error) {
	switch cfg.Backend {
	case BackendGroq:
		return newGroq(ctx, cfg, override)
	case BackendOllama:
		return newOllama(ctx, cfg, override)
	case BackendOpenAI:
		return newOpenAI(ctx, cfg, override)
	case BackendAzure:
		return newAzure(ctx, cfg, override)
	case BackendArk:
		return newArk(ctx, cfg, override)
	case BackendGemini:
		return newGemini(ctx, cfg, override)
	default:
		return nil, fmt.Errorf("provider: unknown backend %q — valid values: groq, ollama, openai, azure, ark, gemini", cfg.Backend)
	}
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat32 returns the float32 value of the named environment variable,
// or fallback if the variable is unset, empty, or not parseable.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
