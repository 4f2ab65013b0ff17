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

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/alarm"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/application"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/config"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/countdown"
	httptransport "github.com/VseMirka200/lets-go-slavgorod-sub000/internal/http"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/logging"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence/sqlite"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	loc := timetable.DefaultLocation
	provider := timetable.NewProvider(time.Now, loc)
	calculator := countdown.NewCalculator(loc)

	notifier := alarm.NewLogNotifier(logger)
	registry := alarm.NewTimerRegistry(notifier, time.Now, logger)
	defer registry.Close()

	settingsService := application.NewSettingsService(store.Settings, provider, nil, time.Now, loc, logger)

	scheduler := alarm.NewScheduler(registry, settingsService, alarm.Options{
		LeadTime: cfg.LeadTime,
		ScanDays: cfg.ScanDays,
		Location: loc,
		Logger:   logger,
	})

	rescheduler := alarm.NewRescheduler(scheduler, store.Favorites, logger)
	settingsService.SetTrigger(rescheduler)
	go rescheduler.Run(ctx)

	// Alarm state is derived, so a boot-time pass rebuilds it from the store.
	rescheduler.Trigger()

	favoriteService := application.NewFavoriteService(store.Favorites, provider, scheduler, time.Now, logger)
	departureService := application.NewDepartureService(provider, store.Favorites, calculator, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Routes:     httptransport.NewRouteHandler(departureService, logger),
		Favorites:  httptransport.NewFavoriteHandler(favoriteService, logger),
		Settings:   httptransport.NewSettingsHandler(settingsService, logger),
		AdminGuard: httptransport.RequireAdminToken(cfg.AdminTokenHash, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("bus alarm API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
