package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/report"
	"github.com/danielhkuo/quickly-elect/router"
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "report" {
		if err := runReport(os.Args[2:]); err != nil {
			slog.Error("report failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(os.Args[1:]); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runServer(args []string) error {
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return err
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	server := &http.Server{
		Handler: middleware.CORS(router.NewRouter(dbConn, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}
	svc := election.NewService(dbConn, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("Status sweep started", "interval", cfg.SweepInterval)
		return svc.RunStatusSweep(ctx, cfg.SweepInterval)
	})

	// Ctrl-C or a failed goroutine
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

func runReport(args []string) error {
	cfg, err := cliparse.ParseReportFlags(args)
	if err != nil {
		return err
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	svc := election.NewService(dbConn, cliparse.Config{})
	return report.Render(context.Background(), os.Stdout, svc, cfg.ElectionID, cfg.NoColor, time.Now())
}
