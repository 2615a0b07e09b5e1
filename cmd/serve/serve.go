// Package serve implements the serve command, which runs the chat HTTP server.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chiheye/LLMGraphChat/internal/chat"
	"github.com/chiheye/LLMGraphChat/internal/config"
	"github.com/chiheye/LLMGraphChat/internal/graphdb"
	"github.com/chiheye/LLMGraphChat/internal/llm"
	"github.com/chiheye/LLMGraphChat/internal/repair"
	"github.com/chiheye/LLMGraphChat/internal/server"
)

var logger = slog.Default()

// SetLogger installs the application logger for the serve command.
func SetLogger(l *slog.Logger) {
	logger = l
}

// ServeCmd starts the chat server in foreground mode.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat server in foreground mode",
	Long: "Start the chat server in foreground mode.\n\n" +
		"The server runs in the foreground, writing logs to the configured log file " +
		"and exposing the chat and schema endpoints over HTTP. Database and LLM " +
		"credentials arrive per-request; the server holds no credentials of its own. " +
		"Use standard backgrounding methods like '&', 'nohup', or platform-specific " +
		"service runners (launchd, systemd) to run the server in the background.",
	Example: `  # Start server in foreground
  graphchat serve

  # Start server in background
  graphchat serve &`,
	PreRunE: validateServe,
	RunE:    runServe,
}

func validateServe(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	manager := graphdb.NewManager(graphdb.WithLogger(logger))

	synthesizer := llm.NewSynthesizer(
		llm.WithLogger(logger),
		llm.WithRequestsPerMinute(cfg.LLM.RateLimit),
		llm.WithResultLimit(cfg.Graph.ResultLimit),
		llm.WithDefaultModel(cfg.LLM.Model),
		llm.WithFallbackLabel(cfg.Graph.FallbackLabel),
	)

	engine := repair.NewEngine(
		repair.WithLogger(logger),
		repair.WithAmbiguousLabels(cfg.Graph.AmbiguousRelationships),
	)

	orchestrator := chat.NewOrchestrator(manager, synthesizer, engine,
		chat.WithLogger(logger),
		chat.WithResultLimit(cfg.Graph.ResultLimit),
	)

	srv := server.NewServer(
		server.Config{
			Port: cfg.Server.HTTPPort,
			Bind: cfg.Server.HTTPBind,
		},
		orchestrator.HandleTurn,
		manager,
		server.WithLogger(logger),
	)

	// Create context that cancels on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	logger.Info("starting chat server",
		"http_bind", cfg.Server.HTTPBind,
		"http_port", cfg.Server.HTTPPort,
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error; %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down chat server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server; %w", err)
	}
	if err := manager.Close(shutdownCtx); err != nil {
		logger.Warn("failed to close database driver", "error", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server error; %w", err)
	}
	return nil
}
