package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens-go/internal/logging"
)

// NewDeleteCmd constructs the `paperlens delete` command, which removes a
// document from the catalog and the vector index.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete an ingested document",
		Long: `Remove a document from the catalog and delete its chunks from the
vector index. Deletion is idempotent: deleting an unknown id succeeds.

Examples:
  paperlens delete 3f2a...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			mgr, _, _, closeAll, err := buildManager(ctx, log)
			if err != nil {
				return fmt.Errorf("delete: %w", err)
			}
			defer closeAll()

			if err := mgr.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("delete: %w", err)
			}

			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
