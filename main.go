package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/freekieb7/pebble/config"
	"github.com/freekieb7/pebble/filesystem"
	"github.com/freekieb7/pebble/handlers"
	"github.com/freekieb7/pebble/http"
	"github.com/freekieb7/pebble/telemetry"
	flag "github.com/spf13/pflag"
)

const (
	name            = "pebble"
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Parse(name, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()
	logger := tel.Logger

	telemetryMiddleware, err := http.TelemetryMiddleware(tel.TracerProvider, tel.MeterProvider)
	if err != nil {
		return err
	}

	router := http.NewRouter()
	router.Use(http.RecoverMiddleware(logger), telemetryMiddleware)
	handlers.Register(router, filesystem.NewLocalFileSystem(cfg.Dir), logger)

	server := http.NewServer(router.Handler(), logger)
	logger.Info("starting", "dir", cfg.Dir, "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(gctx, cfg.Addr); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
