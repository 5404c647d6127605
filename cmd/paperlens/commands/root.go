// Package commands defines all Cobra CLI commands for the paperlens binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens-go/internal/audit"
	"github.com/paperlens/paperlens-go/internal/config"
	"github.com/paperlens/paperlens-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paperlens",
		Short: "PaperLens — ask questions about research papers, answered from the paper itself",
		Long: `PaperLens ingests research papers (PDF or plain text), indexes their
content in a vector store, and answers questions about them with citations
drawn only from the paper's own text.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.paperlens/config.yaml).
See 'paperlens --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env if present. Real environment variables win.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.paperlens/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewIngestCmd(),
		NewAskCmd(),
		NewDocumentsCmd(),
		NewDeleteCmd(),
		NewVersionCmd(),
	)

	return root
}
