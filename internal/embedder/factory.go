package embedder

import (
	"cmp"
	"fmt"
	"os"
	"strconv"

	"github.com/paperlens/paperlens-go/internal/rag"
)

// Default embedding models per backend.
const (
	defaultOllamaModel = "nomic-embed-text"
	defaultOpenAIModel = "text-embedding-3-small"
	defaultGeminiModel = "text-embedding-004"

	// defaultOllamaDimensions is the output dimension of nomic-embed-text.
	// Other Ollama models may differ; override with EMBEDDING_DIMENSIONS.
	defaultOllamaDimensions = 768
	// defaultOpenAIDimensions is the output dimension of text-embedding-3-small.
	defaultOpenAIDimensions = 1536
)

// DefaultDimensions returns the default embedding vector size for the named
// backend, honoring an EMBEDDING_DIMENSIONS override. Callers that
// pre-configure the vector index (Qdrant collection creation) should use
// this instead of hardcoding a size.
func DefaultDimensions(backend string) int {
	if v, err := strconv.Atoi(os.Getenv("EMBEDDING_DIMENSIONS")); err == nil && v > 0 {
		return v
	}
	if backend == "ollama" {
		return defaultOllamaDimensions
	}
	return defaultOpenAIDimensions
}

// Backend resolves the effective embedding backend name the same way
// NewFromEnv does: EMBEDDING_PROVIDER, then MODEL_PROVIDER, then "ollama".
func Backend() string {
	return cmp.Or(os.Getenv("EMBEDDING_PROVIDER"), os.Getenv("MODEL_PROVIDER"), "ollama")
}

// NewFromEnv builds the rag.Embedder the environment describes. Settings
// cascade: embedding-specific variables win, then the chat provider's
// credentials are inherited, then per-backend defaults apply. The one
// embedder instance must serve both ingest and query; retrieval scores are
// only meaningful when chunk and query vectors come from the same model.
//
// Resolution order:
//
//  1. EMBEDDING_PROVIDER — falls back to MODEL_PROVIDER, then "ollama"
//  2. EMBEDDING_API_KEY / EMBEDDING_ENDPOINT — fall back to the chat
//     provider's credentials for the resolved backend
//  3. EMBEDDING_MODEL — falls back to the backend's default model
//  4. EMBEDDING_DIMENSIONS — falls back to the backend's default size
func NewFromEnv() (rag.Embedder, error) {
	backend := Backend()

	switch backend {
	case "ollama":
		return NewOllamaEmbedder(&OllamaConfig{
			Host: cmp.Or(os.Getenv("EMBEDDING_ENDPOINT"),
				os.Getenv("OLLAMA_HOST"), "http://localhost:11434"),
			Model: cmp.Or(os.Getenv("EMBEDDING_MODEL"), defaultOllamaModel),
		}), nil

	case "openai", "groq":
		// Groq exposes an OpenAI-compatible API; same embedder, different
		// base URL and key.
		keys := []string{os.Getenv("EMBEDDING_API_KEY"), os.Getenv("OPENAI_API_KEY")}
		if backend == "groq" {
			keys = append(keys, os.Getenv("GROQ_API_KEY"))
		}
		apiKey := cmp.Or(keys...)
		if apiKey == "" {
			return nil, fmt.Errorf("embedder: %s requires OPENAI_API_KEY or EMBEDDING_API_KEY", backend)
		}
		return NewOpenAIEmbedder(&OpenAIConfig{
			BaseURL:    cmp.Or(os.Getenv("EMBEDDING_ENDPOINT"), "https://api.openai.com/v1"),
			APIKey:     apiKey,
			Model:      cmp.Or(os.Getenv("EMBEDDING_MODEL"), defaultOpenAIModel),
			Dimensions: DefaultDimensions(backend),
		}), nil

	case "azure":
		apiKey := cmp.Or(os.Getenv("EMBEDDING_API_KEY"), os.Getenv("AZURE_OPENAI_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("embedder: azure requires AZURE_OPENAI_API_KEY or EMBEDDING_API_KEY")
		}
		endpoint := cmp.Or(os.Getenv("EMBEDDING_ENDPOINT"), os.Getenv("AZURE_OPENAI_ENDPOINT"))
		if endpoint == "" {
			return nil, fmt.Errorf("embedder: azure requires AZURE_OPENAI_ENDPOINT or EMBEDDING_ENDPOINT")
		}
		return NewOpenAIEmbedder(&OpenAIConfig{
			BaseURL:    endpoint + "/openai",
			APIKey:     apiKey,
			Model:      cmp.Or(os.Getenv("EMBEDDING_MODEL"), defaultOpenAIModel),
			Dimensions: DefaultDimensions(backend),
			Azure:      true,
			APIVersion: cmp.Or(os.Getenv("AZURE_OPENAI_API_VERSION"), "2025-04-01-preview"),
		}), nil

	case "gemini":
		return nil, fmt.Errorf("embedder: gemini embedding support is not yet implemented (model: %s) — set EMBEDDING_PROVIDER to ollama, openai, or azure", defaultGeminiModel)

	default:
		return nil, fmt.Errorf("embedder: unknown backend %q — valid values: ollama, openai, groq, azure", backend)
	}
}
