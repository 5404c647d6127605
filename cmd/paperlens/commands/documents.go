package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens-go/internal/logging"
)

// NewDocumentsCmd constructs the `paperlens documents` command, which lists
// the ingested documents in the catalog.
func NewDocumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List ingested documents",
		Long: `List every document in the catalog, newest first, with its id,
filename, page count, and chunk count.

Examples:
  paperlens documents`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			catalog, closeCatalog, err := openCatalog(log)
			if err != nil {
				return fmt.Errorf("documents: %w", err)
			}
			defer closeCatalog()

			docs, err := catalog.List(ctx)
			if err != nil {
				return fmt.Errorf("documents: %w", err)
			}

			if len(docs) == 0 {
				fmt.Println("no documents ingested")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILENAME\tPAGES\tCHUNKS\tCREATED")
			for _, d := range docs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					d.ID, d.Filename, d.Pages, d.Chunks,
					d.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			return w.Flush()
		},
	}
}
