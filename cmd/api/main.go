package main

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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tripsplit/internal/auth"
	"github.com/MrJamesThe3rd/tripsplit/internal/config"
	"github.com/MrJamesThe3rd/tripsplit/internal/database"
	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/tripsplit/internal/expense/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/export"
	tripsplitHttp "github.com/MrJamesThe3rd/tripsplit/internal/http"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	expenseHandler "github.com/MrJamesThe3rd/tripsplit/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/tripsplit/internal/http/export"
	itemHandler "github.com/MrJamesThe3rd/tripsplit/internal/http/item"
	tripHandler "github.com/MrJamesThe3rd/tripsplit/internal/http/trip"
	userHandler "github.com/MrJamesThe3rd/tripsplit/internal/http/user"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	itemStore "github.com/MrJamesThe3rd/tripsplit/internal/item/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/logging"
	"github.com/MrJamesThe3rd/tripsplit/internal/metrics"
	"github.com/MrJamesThe3rd/tripsplit/internal/scheduler"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
	tripStore "github.com/MrJamesThe3rd/tripsplit/internal/trip/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
	userStore "github.com/MrJamesThe3rd/tripsplit/internal/user/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpen:     cfg.DB.MaxOpen,
		MaxIdle:     cfg.DB.MaxIdle,
		MaxLifetime: cfg.DB.MaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var (
		itemService    = item.NewService(itemStore.New(db))
		userService    = user.NewService(userStore.New(db), itemService)
		tripService    = trip.NewService(tripStore.New(db), userService, itemService)
		expenseService = expense.NewService(expenseStore.New(db), tripService)
		importService  = importer.NewService()
		exportService  = export.NewService(expenseService, tripService)
		tokens         = auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	)

	validate, err := api.NewValidator()
	if err != nil {
		return fmt.Errorf("init validator: %w", err)
	}

	var (
		itemH    = itemHandler.NewHandler(itemService, tripService, validate)
		tripH    = tripHandler.NewHandler(tripService, validate)
		expenseH = expenseHandler.NewHandler(expenseService, importService, validate)
		userH    = userHandler.NewHandler(userService, validate)
		exportH  = exportHandler.NewHandler(exportService)
	)

	opts := tripsplitHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.Handler()
	}

	router := tripsplitHttp.New(opts, tokens, userService, itemH, tripH, expenseH, userH, exportH)

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler.RecalculateSpec, itemService, cfg.Server.Timeout)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}

		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "app", cfg.App.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
