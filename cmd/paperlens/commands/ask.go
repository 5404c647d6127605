package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens-go/internal/logging"
	"github.com/paperlens/paperlens-go/internal/prompt"
)

// NewAskCmd constructs the `paperlens ask` command, which answers a single
// question about a previously ingested document.
func NewAskCmd() *cobra.Command {
	var levelFlag string
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask <document-id> <question>",
		Short: "Ask a question about an ingested paper",
		Long: `Ask a natural language question about a previously ingested document.

The answer is generated only from the paper's indexed content. The --level
flag selects the explanation style: beginner, student (default), or
researcher.

Examples:
  paperlens ask 3f2a... "what problem does this paper solve?"
  paperlens ask 3f2a... --level beginner "explain the main result"
  paperlens ask 3f2a... --level researcher --sources "how is the ablation designed?"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			level, err := prompt.ParseLevel(levelFlag)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			emb, err := buildEmbedder(log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			index, closeIndex, err := buildIndex(ctx, log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer closeIndex()

			eng, _, err := buildEngine(ctx, log, emb, index)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			answer, err := eng.Answer(ctx, args[0], args[1], level, nil)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer.Text)

			if showSources && len(answer.Citations) > 0 {
				fmt.Println("\nSources:")
				for _, c := range answer.Citations {
					fmt.Printf("  [%s] chunk %d (score %.3f)\n", c.Label, c.ChunkIndex, c.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&levelFlag, "level", "l", "", "Explanation level: beginner, student, researcher (default: student)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Print the cited chunks after the answer")

	return cmd
}
