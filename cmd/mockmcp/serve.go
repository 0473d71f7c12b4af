package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/config"
	"github.com/MegaGrindStone/go-mockmcp/internal/metrics"
)

const serverVersion = "0.1.0"

func newServeCmd() *cobra.Command {
	var (
		transport  string
		addr       string
		datasetDir string
		allowTools []string
		denyTools  []string
	)

	cmd := &cobra.Command{
		Use:   "serve [server...]",
		Short: "Serve the selected mock servers over stdio or SSE",
		Long: "Serve starts the selected mock servers (all of them when none are named)\n" +
			"on one merged tool surface. In stdio mode a single session runs on\n" +
			"stdin/stdout and diagnostics go to stderr; in SSE mode the /sse, /message,\n" +
			"and /metrics endpoints share one HTTP listener.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport.Mode = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.Transport.Addr = addr
			}
			if cmd.Flags().Changed("dataset-dir") {
				cfg.DataDir = datasetDir
			}
			if cmd.Flags().Changed("allow-tool") {
				cfg.Tools.Allow = allowTools
			}
			if cmd.Flags().Changed("deny-tool") {
				cfg.Tools.Deny = denyTools
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			selected, err := resolveDomains(args)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, selected)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "transport mode (stdio or sse)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address for the sse transport")
	cmd.Flags().StringVar(&datasetDir, "dataset-dir", "", "directory holding the dataset files")
	cmd.Flags().StringArrayVar(&allowTools, "allow-tool", nil, "glob pattern of tools to expose (repeatable)")
	cmd.Flags().StringArrayVar(&denyTools, "deny-tool", nil, "glob pattern of tools to hide (repeatable)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, selected []domain) error {
	// The stdio transport owns stdout, so diagnostics always go to stderr.
	logger := cfg.NewLogger(os.Stderr)

	logStream := mockmcp.NewLogStream("mockmcp")
	defer logStream.Close()

	toolSet, err := buildToolSet(cfg, selected, logStream)
	if err != nil {
		return err
	}
	defer toolSet.Close()

	registry := prometheus.NewRegistry()
	toolServer := metrics.WrapToolServer(toolSet, registry)

	info := mockmcp.Info{Name: "mockmcp", Version: serverVersion}
	options := []mockmcp.ServerOption{
		mockmcp.WithToolServer(toolServer),
		mockmcp.WithToolListUpdater(toolSet),
		mockmcp.WithLogHandler(logStream),
		mockmcp.WithServerLogger(logger),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Transport.Mode == "sse" {
		return serveSSE(ctx, cfg, logger, info, options, registry)
	}
	return serveStdIO(ctx, logger, info, options)
}

func serveStdIO(ctx context.Context, logger *slog.Logger, info mockmcp.Info, options []mockmcp.ServerOption) error {
	srv := mockmcp.NewServer(info, mockmcp.NewStdIO(os.Stdin, os.Stdout), options...)

	logger.Info("serving on stdio", slog.String("server", info.Name))
	go srv.Serve()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serveSSE(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	info mockmcp.Info,
	options []mockmcp.ServerOption,
	registry *prometheus.Registry,
) error {
	sse := mockmcp.NewSSEServer(messageURL(cfg.Transport.Addr))
	srv := mockmcp.NewServer(info, sse, options...)

	mux := http.NewServeMux()
	mux.Handle("/sse", sse.HandleSSE())
	mux.Handle("/message", sse.HandleMessage())
	mux.Handle("/metrics", metrics.Handler(registry))

	httpSrv := &http.Server{
		Addr:              cfg.Transport.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("serving on sse", slog.String("addr", cfg.Transport.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	go srv.Serve()

	select {
	case err := <-errs:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return httpSrv.Shutdown(shutdownCtx)
}

// messageURL builds the absolute URL clients post messages to, as the SSE
// handshake advertises it.
func messageURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://%s/message", strings.TrimPrefix(addr, "http://"))
	}
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/message", net.JoinHostPort(host, port))
}
