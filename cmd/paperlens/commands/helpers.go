package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/paperlens/paperlens-go/internal/chunker"
	"github.com/paperlens/paperlens-go/internal/embedder"
	"github.com/paperlens/paperlens-go/internal/engine"
	"github.com/paperlens/paperlens-go/internal/generator"
	"github.com/paperlens/paperlens-go/internal/lifecycle"
	"github.com/paperlens/paperlens-go/internal/provider"
	"github.com/paperlens/paperlens-go/internal/rag"
	"github.com/paperlens/paperlens-go/internal/store"
)

// envOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// chunkingFromEnv resolves the chunk size and overlap from CHUNK_SIZE and
// CHUNK_OVERLAP. Each variable defaults independently, so setting only
// CHUNK_SIZE keeps the default overlap (scaled down when it would not fit
// the requested size). An explicit CHUNK_OVERLAP=0 disables overlap.
func chunkingFromEnv() (size, overlap int) {
	size = envInt("CHUNK_SIZE", chunker.DefaultSize)
	overlap = envInt("CHUNK_OVERLAP", -1)
	if overlap < 0 {
		overlap = chunker.DefaultOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}
	return size, overlap
}

// buildEmbedder validates the embedding environment and constructs the
// embedding backend.
func buildEmbedder(log *slog.Logger) (rag.Embedder, error) {
	if err := embedder.Validate(log); err != nil {
		return nil, err
	}
	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, err
	}
	log.Info("embedder initialised", slog.String("backend", embedder.Backend()))
	return emb, nil
}

// buildIndex constructs the vector index. When QDRANT_HOST is set a Qdrant
// collection is used; otherwise chunks live in process memory and are lost on
// exit. The returned close function releases the index connection.
func buildIndex(ctx context.Context, log *slog.Logger) (rag.VectorIndex, func(), error) {
	host := os.Getenv("QDRANT_HOST")
	if host == "" {
		log.Warn("QDRANT_HOST not set, using in-memory vector index")
		idx := rag.NewMemoryIndex()
		return idx, func() { _ = idx.Close() }, nil
	}

	vectorSize := uint64(embedder.DefaultDimensions(embedder.Backend())) //nolint:gosec // dimensions are bounded
	idx, err := rag.NewQdrantIndex(ctx, &rag.QdrantConfig{
		Host:       host,
		Port:       envInt("QDRANT_PORT", 6334),
		Collection: envOrDefault("QDRANT_COLLECTION", "paperlens-chunks"),
		VectorSize: vectorSize,
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", host, err)
	}
	log.Info("qdrant index ready",
		slog.String("host", host),
		slog.String("collection", envOrDefault("QDRANT_COLLECTION", "paperlens-chunks")),
	)
	return idx, func() { _ = idx.Close() }, nil
}

// openCatalog opens the SQLite document catalog. PAPERLENS_CATALOG_DB
// overrides the default path (~/.paperlens/catalog.db).
func openCatalog(log *slog.Logger) (store.Catalog, func(), error) {
	dbPath := os.Getenv("PAPERLENS_CATALOG_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve catalog path: %w", err)
		}
	}

	catalog, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog at %s: %w", dbPath, err)
	}
	log.Info("catalog opened", slog.String("path", dbPath))
	return catalog, func() { _ = catalog.Close() }, nil
}

// buildManager assembles the document lifecycle manager from the chunker,
// embedder, vector index, and catalog. The returned close function releases
// the index and catalog.
func buildManager(ctx context.Context, log *slog.Logger) (*lifecycle.Manager, rag.Embedder, rag.VectorIndex, func(), error) {
	emb, err := buildEmbedder(log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	index, closeIndex, err := buildIndex(ctx, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	catalog, closeCatalog, err := openCatalog(log)
	if err != nil {
		closeIndex()
		return nil, nil, nil, nil, err
	}

	size, overlap := chunkingFromEnv()
	ch, err := chunker.New(&chunker.Config{Size: size, Overlap: overlap})
	if err != nil {
		closeCatalog()
		closeIndex()
		return nil, nil, nil, nil, err
	}

	mgr, err := lifecycle.NewManager(ch, emb, index, catalog)
	if err != nil {
		closeCatalog()
		closeIndex()
		return nil, nil, nil, nil, err
	}

	closeAll := func() {
		closeCatalog()
		closeIndex()
	}
	return mgr, emb, index, closeAll, nil
}

// buildEngine assembles the question-answering engine on top of an existing
// embedder and vector index, constructing the chat model pair from env.
func buildEngine(ctx context.Context, log *slog.Logger, emb rag.Embedder, index rag.VectorIndex) (*engine.Engine, *provider.Models, error) {
	topK := envInt("RETRIEVAL_TOP_K", rag.DefaultTopK)

	retriever, err := rag.NewRetriever(emb, index, topK)
	if err != nil {
		return nil, nil, err
	}

	models, err := provider.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}
	log.Info("provider initialised",
		slog.String("backend", envOrDefault("MODEL_PROVIDER", "groq")),
		slog.String("model", models.PrimaryName),
	)

	gen, err := generator.New(models.Primary, models.Fallback, models.PrimaryName, models.FallbackName)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(retriever, gen, topK)
	if err != nil {
		return nil, nil, err
	}
	return eng, models, nil
}
