package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"link-forensics/config"
	"link-forensics/scanner"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan API",
		Long: `Serve POST /scan for the browser extension.

Requests carry {"url": "..."} and receive a SAFE or MALICIOUS verdict for
the link's final destination.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("port", "p", "", "listen port (overrides PORT and the config file)")
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		if cfg.Port, err = cmd.Flags().GetString("port"); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger, nil)
}

func newServer(cfg config.Config, logger *slog.Logger) *http.Server {
	svc := scanner.New(cfg, logger)
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           scanner.NewHandler(svc, cfg.AllowedOrigin, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs the API until ctx is cancelled. ready, when not nil, receives
// the bound address once the listener is open.
func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, ready chan<- string) error {
	srv := newServer(cfg, logger)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	logger.Info("link-forensics listening",
		"addr", ln.Addr().String(),
		"live_lookups", cfg.HasAPIKey(),
		"enrich", cfg.Enrich,
	)
	if !cfg.HasAPIKey() {
		logger.Warn("VT_API_KEY not set, all scans will use mock verdicts")
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
