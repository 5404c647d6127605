// Package provider selects and constructs the chat model backends used for
// answer generation. Every deployment resolves a primary model and,
// optionally, a cheaper fallback model on the same backend; the generator
// tries the fallback exactly once when the primary fails.
// Supported backends: Groq, Ollama, OpenAI, Azure OpenAI, Ark, Google Gemini.
package provider

import "fmt"

// Backend enumerates the supported chat inference providers.
type Backend string

const (
	// BackendGroq selects the Groq API (OpenAI-compatible). This is the
	// default backend.
	BackendGroq Backend = "groq"
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendAzure selects Azure OpenAI Service.
	BackendAzure Backend = "azure"
	// BackendArk selects the Volcano Engine Ark model runtime.
	BackendArk Backend = "ark"
	// BackendGemini selects Google Gemini via AI Studio.
	BackendGemini Backend = "gemini"
)

// ProviderGroq holds Groq-specific settings.
type ProviderGroq struct {
	// APIKey is the Groq API key. Populated from GROQ_API_KEY.
	APIKey string
	// BaseURL is the OpenAI-compatible endpoint (default: https://api.groq.com/openai/v1).
	BaseURL string
	// Model is the primary generation model (default: llama-3.3-70b-versatile).
	Model string
	// FallbackModel is tried once when the primary fails (default: llama-3.1-8b-instant).
	FallbackModel string
}

// ProviderOllama holds Ollama-specific settings.
type ProviderOllama struct {
	// Host is the Ollama server base URL. Populated from OLLAMA_HOST.
	Host string
	// Model is the primary generation model. Populated from OLLAMA_MODEL.
	Model string
	// FallbackModel is tried once when the primary fails. Empty disables the fallback.
	FallbackModel string
}

// ProviderOpenAI holds OpenAI-specific settings.
type ProviderOpenAI struct {
	// APIKey is the OpenAI API key. Populated from OPENAI_API_KEY.
	APIKey string
	// Model is the primary generation model. Populated from OPENAI_MODEL.
	Model string
	// FallbackModel is tried once when the primary fails. Empty disables the fallback.
	FallbackModel string
}

// ProviderAzureOpenAI holds Azure OpenAI Service settings.
type ProviderAzureOpenAI struct {
	// APIKey is the Azure OpenAI key. Populated from AZURE_OPENAI_API_KEY.
	APIKey string
	// Endpoint is the resource endpoint. Populated from AZURE_OPENAI_ENDPOINT.
	Endpoint string
	// Deployment is the primary deployment name. Populated from AZURE_OPENAI_DEPLOYMENT.
	Deployment string
	// FallbackDeployment is tried once when the primary fails. Empty disables the fallback.
	FallbackDeployment string
	// APIVersion is the REST API version (default: 2024-02-01).
	APIVersion string
}

// ProviderArk holds Volcano Engine Ark settings.
type ProviderArk struct {
	// APIKey is the Ark API key. Populated from ARK_API_KEY.
	APIKey string
	// BaseURL overrides the default Ark endpoint. Populated from ARK_BASE_URL.
	BaseURL string
	// Model is the primary endpoint/model ID. Populated from ARK_MODEL.
	Model string
	// FallbackModel is tried once when the primary fails. Empty disables the fallback.
	FallbackModel string
}

// ProviderGemini holds Google Gemini settings.
type ProviderGemini struct {
	// APIKey is the AI Studio API key. Populated from GOOGLE_API_KEY.
	APIKey string
	// Model is the primary generation model. Populated from GEMINI_MODEL.
	Model string
	// FallbackModel is tried once when the primary fails. Empty disables the fallback.
	FallbackModel string
}

// GenerationTuning holds backend-independent generation parameters.
type GenerationTuning struct {
	// MaxTokens caps the number of tokens the model may generate per answer.
	MaxTokens int
	// Temperature controls response randomness. The low default keeps
	// answers factual.
	Temperature float32
}

// Config holds all provider-level configuration resolved from environment
// variables or explicit caller-supplied values.
type Config struct {
	// Backend identifies which inference provider to use.
	Backend Backend

	Groq        ProviderGroq
	Ollama      ProviderOllama
	OpenAI      ProviderOpenAI
	AzureOpenAI ProviderAzureOpenAI
	Ark         ProviderArk
	Gemini      ProviderGemini

	Tuning GenerationTuning
}

// Validate checks that the selected backend has its required settings so
// callers get a clear error at startup rather than on the first request.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGroq:
		if c.Groq.APIKey == "" {
			return fmt.Errorf("provider: GROQ_API_KEY is required for groq backend")
		}
		if c.Groq.Model == "" {
			return fmt.Errorf("provider: GENERATION_MODEL is required for groq backend")
		}
	case BackendOllama:
		if c.Ollama.Model == "" {
			return fmt.Errorf("provider: OLLAMA_MODEL is required for ollama backend")
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("provider: OPENAI_API_KEY is required for openai backend")
		}
		if c.OpenAI.Model == "" {
			return fmt.Errorf("provider: OPENAI_MODEL is required for openai backend")
		}
	case BackendAzure:
		if c.AzureOpenAI.APIKey == "" {
			return fmt.Errorf("provider: AZURE_OPENAI_API_KEY is required for azure backend")
		}
		if c.AzureOpenAI.Endpoint == "" {
			return fmt.Errorf("provider: AZURE_OPENAI_ENDPOINT is required for azure backend")
		}
		if c.AzureOpenAI.Deployment == "" {
			return fmt.Errorf("provider: AZURE_OPENAI_DEPLOYMENT is required for azure backend")
		}
	case BackendArk:
		if c.Ark.APIKey == "" {
			return fmt.Errorf("provider: ARK_API_KEY is required for ark backend")
		}
		if c.Ark.Model == "" {
			return fmt.Errorf("provider: ARK_MODEL is required for ark backend")
		}
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("provider: GOOGLE_API_KEY is required for gemini backend")
		}
		if c.Gemini.Model == "" {
			return fmt.Errorf("provider: GEMINI_MODEL is required for gemini backend")
		}
	default:
		return fmt.Errorf("provider: unknown backend %q — valid values: groq, ollama, openai, azure, ark, gemini", c.Backend)
	}
	return nil
}

// fallbackModel returns the configured fallback identifier for the selected
// backend, or empty when no fallback is configured.
func (c *Config) fallbackModel() string {
	switch c.Backend {
	case BackendGroq:
		return c.Groq.FallbackModel
	case BackendOllama:
		return c.Ollama.FallbackModel
	case BackendOpenAI:
		return c.OpenAI.FallbackModel
	case BackendAzure:
		return c.AzureOpenAI.FallbackDeployment
	case BackendArk:
		return c.Ark.FallbackModel
	case BackendGemini:
		return c.Gemini.FallbackModel
	default:
		return ""
	}
}

// primaryModel returns the primary model identifier for the selected
// backend.
func (c *Config) primaryModel() string {
	switch c.Backend {
	case BackendGroq:
		return c.Groq.Model
	case BackendOllama:
		return c.Ollama.Model
	case BackendOpenAI:
		return c.OpenAI.Model
	case BackendAzure:
		return c.AzureOpenAI.Deployment
	case BackendArk:
		return c.Ark.Model
	case BackendGemini:
		return c.Gemini.Model
	default:
		return ""
	}
}
