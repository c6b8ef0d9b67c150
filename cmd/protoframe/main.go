// protoframe CLI
//
// A multi-protocol TCP frame decoding and dispatch server: length-prefixed
// JSON request/response, CRC-validated Modbus RTU with resync, line and
// raw framing, and an auto-detect regime between JSON and Modbus RTU.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/commatea/protoframe/pkg/config"
	"github.com/commatea/protoframe/pkg/logger"
	"github.com/commatea/protoframe/pkg/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	buildTime = "dev"
	gitCommit = "unknown"
)

var (
	cfgFile string
	port    int
	framing string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "protoframe",
		Short:   "protoframe - multi-protocol TCP frame decoding and dispatch core",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the TCP frame decoding server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override tcp.port from config")
	cmd.Flags().StringVar(&framing, "framing", "", "override tcp.framing from config")
	return cmd
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if port != 0 {
		cfg.TCP.Port = port
	}
	if framing != "" {
		cfg.TCP.Framing = framing
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
		File:   cfg.Logging.File,
	})
	logger.SetGlobal(log)

	srv := server.New(cfg.TCP, log)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = startMetricsServer(cfg.Metrics, log)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	select {
	case err := <-serveErr:
		if metricsSrv != nil {
			metricsSrv.Close()
		}
		if err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	case <-sigCh:
		log.Info("shutdown signal received")
		srv.Shutdown()
		if metricsSrv != nil {
			metricsSrv.Close()
		}
		return nil
	}
}

// startMetricsServer starts a background HTTP listener serving
// Prometheus's scrape handler at cfg.Endpoint. Errors after startup are
// logged, not fatal: a dead metrics listener must never take down the
// frame-decoding server it is observing.
func startMetricsServer(cfg config.MetricsConfig, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}

	go func() {
		log.Info("metrics listening", "addr", cfg.Address, "endpoint", cfg.Endpoint)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server exited", "error", err)
		}
	}()

	return srv
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("protoframe %s (commit: %s, built: %s)\n", version, gitCommit, buildTime)
			return nil
		},
	}
}
