package embedder

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// chatModelFragments are name fragments of chat/completion models, which do
// not produce usable embeddings. A configured EMBEDDING_MODEL matching one
// of these almost always means the operator reused their chat model name.
var chatModelFragments = strings.Fields(`
	gpt-4 gpt-3.5 gpt-35 o1 o3
	llama3 llama2 llama-3 llama-2
	mistral mixtral gemma phi- phi3
	claude command-r deepseek qwen solar vicuna falcon yi-`)

// looksLikeChatModel reports whether the model name resembles a chat model
// rather than a dedicated embedding model.
func looksLikeChatModel(model string) bool {
	lower := strings.ToLower(model)
	for _, frag := range chatModelFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// Validate checks that the embedding configuration is usable before the
// service starts. The document pipeline cannot run without an embedder, so
// unlike chat-provider config this is not optional: a clearly broken setup
// (e.g. azure backend with no API key) returns an error, and suspicious but
// workable setups produce warnings.
//
// Call it at startup so operators get a clear error rather than a cryptic
// failure on the first upload.
func Validate(log *slog.Logger) error {
	backend := Backend()

	if os.Getenv("QDRANT_HOST") == "" {
		log.Warn("embedder: QDRANT_HOST is not set — chunk vectors will be held in memory and lost on restart",
			slog.String("hint", "set QDRANT_HOST to persist the vector index"),
		)
	}

	switch backend {
	case "openai", "groq":
		apiKey := cmp.Or(os.Getenv("EMBEDDING_API_KEY"), os.Getenv("OPENAI_API_KEY"))
		if apiKey == "" && backend == "groq" {
			apiKey = os.Getenv("GROQ_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("embedder: backend %s needs an API key — set OPENAI_API_KEY or EMBEDDING_API_KEY", backend)
		}

	case "azure":
		if cmp.Or(os.Getenv("EMBEDDING_API_KEY"), os.Getenv("AZURE_OPENAI_API_KEY")) == "" {
			return fmt.Errorf("embedder: backend azure needs an API key — set AZURE_OPENAI_API_KEY or EMBEDDING_API_KEY")
		}
		if cmp.Or(os.Getenv("EMBEDDING_ENDPOINT"), os.Getenv("AZURE_OPENAI_ENDPOINT")) == "" {
			return fmt.Errorf("embedder: backend azure needs an endpoint — set AZURE_OPENAI_ENDPOINT or EMBEDDING_ENDPOINT")
		}

	case "gemini":
		return fmt.Errorf("embedder: gemini embedding is not yet implemented — set EMBEDDING_PROVIDER to ollama, openai, or azure")
	}

	// Warn when the chat backend was inherited implicitly — the operator may
	// have forgotten EMBEDDING_PROVIDER entirely.
	if backend != "ollama" && os.Getenv("EMBEDDING_PROVIDER") == "" {
		log.Warn("embedder: EMBEDDING_PROVIDER is not set — inheriting MODEL_PROVIDER as embedding backend",
			slog.String("backend", backend),
			slog.String("hint", "set EMBEDDING_PROVIDER=ollama (or openai/azure) to be explicit"),
		)
	}

	model := os.Getenv("EMBEDDING_MODEL")
	if model != "" && looksLikeChatModel(model) {
		log.Warn("embedder: EMBEDDING_MODEL looks like a chat model, not an embedding model — "+
			"this will likely produce poor or broken embeddings",
			slog.String("model", model),
			slog.String("hint", "use a dedicated embedding model e.g. nomic-embed-text, text-embedding-3-small"),
		)
	}

	return nil
}
