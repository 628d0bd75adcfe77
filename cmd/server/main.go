// @title           FRITZ!Box Internet Tickets API
// @version         1.0
// @description     Open parental-control tickets read from a FRITZ!Box router.
// @schemes         http
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fritz-tickets/internal/api"
	"fritz-tickets/internal/config"
	"fritz-tickets/internal/fritzbox"
	"fritz-tickets/internal/logging"
	"fritz-tickets/internal/metrics"
	"fritz-tickets/internal/poller"
	"fritz-tickets/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	_ "fritz-tickets/docs"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to settings file (default: ./configs/settings.yml or /configs/settings.yml)")
	checkOnly := pflag.Bool("check", false, "log into the router once and exit")
	pflag.Parse()

	load := config.Load
	if *checkOnly {
		load = config.LoadDevice
	}
	cfg, err := load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds := fritzbox.Credentials{
		Host:     cfg.FritzBox.Host,
		Username: cfg.FritzBox.Username,
		Password: cfg.FritzBox.Password,
	}

	if *checkOnly {
		check := api.DeviceCheck(cfg.FritzBox.Timeout, logger)
		if err := check(ctx, creds); err != nil {
			logger.Error("router check failed", zap.String("host", creds.Host), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("router check passed", zap.String("host", creds.Host))
		return
	}

	if err := run(ctx, cfg, creds, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, creds fritzbox.Credentials, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	client := fritzbox.NewClient(creds,
		fritzbox.WithTimeout(cfg.FritzBox.Timeout),
		fritzbox.WithSIDLifetime(cfg.FritzBox.SIDLifetime),
		fritzbox.WithEndpoints(cfg.FritzBox.Endpoints),
		fritzbox.WithLogger(logger.Named("fritzbox")),
		fritzbox.WithLoginObserver(m.ObserveLogin),
		fritzbox.WithProbeObserver(m.ObserveProbe),
	)
	defer client.Close()

	wsHub := websocket.NewHub(logger.Named("websocket"))
	go wsHub.Run(ctx)

	p := poller.New(client, wsHub, m, cfg.Poller, logger.Named("poller"))
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	server := api.NewServer(cfg, p, api.DeviceCheck(cfg.FritzBox.Timeout, logger.Named("check")), wsHub, m, logger.Named("http"))

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Routes(registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr), zap.String("router", client.Host()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
