// boardfoot: lumber board-foot calculator with saved orders
//
// Computes board feet and cost for a working list of boards, keeps the list
// as an autosaved draft and stores named orders in a configurable backend
// (file, SQLite, Postgres, S3 or memory).
//
// Build:
//   go build -o boardfoot ./cmd/boardfoot
//
// Run one command, or start an interactive shell when none is given:
//   boardfoot add -t 8 -w 6 -l 8 -price 5.50 -species Oak
//   boardfoot report
//   boardfoot save -name "Friday pickup"
//   boardfoot

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/piwi3910/boardfoot/internal/project"
)

func main() {
	logger := log.New(os.Stderr, "[boardfoot] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Printf("error: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("boardfoot", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", project.DefaultConfigPath(), "path to the JSON config file")
	storeDriver := fs.String("store", "", "storage driver override (memory, file, sqlite, postgres, s3)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: boardfoot [flags] [command [args]]")
		fs.PrintDefaults()
		fmt.Fprintln(out)
		printHelp(out)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = project.ApplyEnv(cfg)
	if *storeDriver != "" {
		cfg.StorageDriver = *storeDriver
	}

	kv, err := project.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	defer kv.Close()

	reg := prometheus.NewRegistry()
	metrics := project.NewMetrics(reg)
	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	store := project.NewOrderStore(kv, project.WithLogger(logger), project.WithMetrics(metrics))
	a := newApp(ctx, store, cfg, *configPath, out, logger)

	if fs.NArg() == 0 {
		return a.shell(ctx, in)
	}
	return a.exec(ctx, fs.Args())
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Printf("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("metrics server: %v", err)
		}
	}()
	return srv
}
