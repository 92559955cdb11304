// Package main - Entry point for the phone-bill HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"phone-bill/api"
	"phone-bill/internal/app"
	"phone-bill/internal/config"
	"phone-bill/internal/logging"
	"phone-bill/internal/metrics"
)

const version = "0.1.0"

func main() {
	cfgFile := flag.String("config", config.DefaultFileName, "Config file")
	envFile := flag.String("env-file", ".env", "dotenv file with PHONE_BILL_* overrides")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	if err := run(*cfgFile, *envFile, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile, envFile, addr string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	// Servers log at info unless configured otherwise
	if cfg.Logging.Level == logging.DefaultConfig().Level {
		cfg.Logging.Level = "info"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	config.Set(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e, err := app.NewEngine(cfg, metrics.New(reg))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewServer(e, api.Options{
			Version:      version,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			Gatherer:     reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("phone-bill server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.Int("plans", e.Catalog().Len()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
