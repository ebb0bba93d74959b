package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pebblohq/pebblomcp/internal/agents"
	"github.com/pebblohq/pebblomcp/internal/audit"
	"github.com/pebblohq/pebblomcp/internal/config"
	"github.com/pebblohq/pebblomcp/internal/engine"
	"github.com/pebblohq/pebblomcp/internal/policy"
	"github.com/pebblohq/pebblomcp/internal/records"
	"github.com/pebblohq/pebblomcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Pebblo MCP HTTP service",
	Long: `Start the protection engine and serve the agent and dashboard API.

  pebblomcp serve --listen :8080`,
	RunE: serveCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(policyPath, auditLogPath, listenAddr)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	trail := audit.NewTrail()

	jsonlSink, err := audit.NewJSONLSink(cfg.AuditLogPath)
	if err != nil {
		slog.Warn("audit file unavailable, trail stays in-memory only",
			"path", cfg.AuditLogPath, "error", err)
	} else {
		defer func() { _ = jsonlSink.Close() }()
		trail.AttachSink(jsonlSink)
	}

	if cfg.AuditDBPath != "" {
		store, err := audit.OpenStore(cfg.AuditDBPath)
		if err != nil {
			slog.Warn("audit database unavailable", "path", cfg.AuditDBPath, "error", err)
		} else {
			trail.AttachSink(store)
			slog.Info("audit database attached", "path", cfg.AuditDBPath)
		}
	}

	eng := engine.New(policy.LoadStore(cfg.PolicyPath), trail)
	repo := records.LoadRepository(cfg.DataDir)
	srv := server.New(agents.NewCrew(repo, eng), eng)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
