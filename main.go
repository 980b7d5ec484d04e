package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/freekieb7/webroute/config"
	"github.com/freekieb7/webroute/http"
	"github.com/freekieb7/webroute/telemetry"
)

const name = "github.com/freekieb7/webroute"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, args []string) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	otelShutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, otelShutdown(shutdownCtx))
	}()

	logger := telemetry.Logger(cfg)

	router := http.NewRouter()
	registerRoutes(router,
		http.RecoverMiddleware(logger),
		http.LogMiddleware(logger),
		http.TraceMiddleware(otel.Tracer(name)),
	)

	opts := cfg.ServerOptions()
	opts.Logger = logger

	server, err := http.NewServer(router, opts)
	if err != nil {
		return err
	}

	serverErrCh := make(chan error, 1)

	go func() {
		logger.Info("serving static files", "root", cfg.StaticRoot, "path.policy", cfg.PathPolicy.String())
		serverErrCh <- server.ListenAndServe(ctx, cfg.Addr())
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
