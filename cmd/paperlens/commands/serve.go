package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paperlens/paperlens-go/internal/logging"
	"github.com/paperlens/paperlens-go/internal/rag"
	"github.com/paperlens/paperlens-go/internal/server"
	"github.com/paperlens/paperlens-go/internal/tracing"
)

// resolveListenAddr applies SERVER_HOST and SERVER_PORT to the bind address
// when the corresponding flag was not given. Config-file values reach us as
// env vars set after flag registration, so the fallback happens at run time
// rather than in the flag defaults.
func resolveListenAddr(flags *pflag.FlagSet, host string, port int) (string, int) {
	if !flags.Changed("host") {
		host = envOrDefault("SERVER_HOST", host)
	}
	if !flags.Changed("port") {
		port = envInt("SERVER_PORT", port)
	}
	return host, port
}

// NewServeCmd constructs the `paperlens serve` command, which starts the
// HTTP API server.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the PaperLens HTTP API server",
		Long: `Start the PaperLens HTTP server on localhost.

The server exposes upload, chat, and document management endpoints plus
health, readiness, and Prometheus metrics.

Examples:
  paperlens serve
  paperlens serve --port 9090
  MODEL_PROVIDER=ollama paperlens serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			host, port = resolveListenAddr(cmd.Flags(), host, port)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			mgr, emb, index, closeAll, err := buildManager(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer closeAll()

			eng, models, err := buildEngine(ctx, log, emb, index)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			pingers := []server.Pinger{
				server.NewEmbedderPinger(emb),
				server.NewModelPinger(models.Primary, envOrDefault("MODEL_PROVIDER", "groq")),
			}
			if qi, ok := index.(*rag.QdrantIndex); ok {
				pingers = append(pingers, server.NewQdrantPinger(qi.Client()))
			}

			srv, err := server.New(eng, mgr, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
				APIKey:  os.Getenv("PAPERLENS_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
