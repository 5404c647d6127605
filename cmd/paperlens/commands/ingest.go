package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens-go/internal/extract"
	"github.com/paperlens/paperlens-go/internal/logging"
)

// NewIngestCmd constructs the `paperlens ingest` command, which extracts a
// local document and indexes it for question answering.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a research paper into the vector index",
		Long: `Extract the text of a local PDF or plain-text file, split it into
chunks, embed the chunks, and index them for question answering.
Prints the generated document id on success.

PDF extraction requires the pdftotext and pdfinfo binaries (poppler-utils).

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (in-memory index when unset)
  MODEL_PROVIDER       Embedding backend selection (default: ollama)
  EMBEDDING_*          Provider-specific overrides (see README)

Examples:
  paperlens ingest paper.pdf
  paperlens ingest notes.txt
  EMBEDDING_PROVIDER=openai paperlens ingest attention.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			path := args[0]

			extractor, err := extract.ForFilename(path)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer f.Close()

			result, err := extractor.Extract(ctx, f)
			if err != nil {
				return fmt.Errorf("ingest: extracting %s: %w", path, err)
			}
			log.Info("text extracted",
				slog.String("file", path),
				slog.Int("pages", result.Pages),
				slog.Int("characters", len(result.Text)),
			)

			mgr, _, _, closeAll, err := buildManager(ctx, log)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer closeAll()

			doc, err := mgr.Ingest(ctx, result.Text, filepath.Base(path), result.Pages)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			fmt.Printf("ingested %s: %d chunks\n", doc.Filename, doc.Chunks)
			fmt.Printf("document id: %s\n", doc.ID)
			return nil
		},
	}

	return cmd
}
