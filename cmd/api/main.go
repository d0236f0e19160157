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

	"github.com/MrJamesThe3rd/financeflow/internal/admin"
	adminStore "github.com/MrJamesThe3rd/financeflow/internal/admin/store"
	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/financeflow/internal/budget/store"
	"github.com/MrJamesThe3rd/financeflow/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/financeflow/internal/categorize/store"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	categoryStore "github.com/MrJamesThe3rd/financeflow/internal/category/store"
	"github.com/MrJamesThe3rd/financeflow/internal/config"
	"github.com/MrJamesThe3rd/financeflow/internal/database"
	"github.com/MrJamesThe3rd/financeflow/internal/export"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	goalStore "github.com/MrJamesThe3rd/financeflow/internal/goal/store"
	financeflowHttp "github.com/MrJamesThe3rd/financeflow/internal/http"
	accessHandler "github.com/MrJamesThe3rd/financeflow/internal/http/access"
	adminHandler "github.com/MrJamesThe3rd/financeflow/internal/http/admin"
	analyticsHandler "github.com/MrJamesThe3rd/financeflow/internal/http/analytics"
	budgetHandler "github.com/MrJamesThe3rd/financeflow/internal/http/budget"
	categorizeHandler "github.com/MrJamesThe3rd/financeflow/internal/http/categorize"
	categoryHandler "github.com/MrJamesThe3rd/financeflow/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/financeflow/internal/http/export"
	goalHandler "github.com/MrJamesThe3rd/financeflow/internal/http/goal"
	importHandler "github.com/MrJamesThe3rd/financeflow/internal/http/importcsv"
	notificationHandler "github.com/MrJamesThe3rd/financeflow/internal/http/notification"
	profileHandler "github.com/MrJamesThe3rd/financeflow/internal/http/profile"
	recurringHandler "github.com/MrJamesThe3rd/financeflow/internal/http/recurring"
	todoHandler "github.com/MrJamesThe3rd/financeflow/internal/http/todo"
	txHandler "github.com/MrJamesThe3rd/financeflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/logging"
	"github.com/MrJamesThe3rd/financeflow/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/financeflow/internal/notification/store"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	profileStore "github.com/MrJamesThe3rd/financeflow/internal/profile/store"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	recurringStore "github.com/MrJamesThe3rd/financeflow/internal/recurring/store"
	"github.com/MrJamesThe3rd/financeflow/internal/subscription"
	subscriptionStore "github.com/MrJamesThe3rd/financeflow/internal/subscription/store"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	todoStore "github.com/MrJamesThe3rd/financeflow/internal/todo/store"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
	txStore "github.com/MrJamesThe3rd/financeflow/internal/transaction/store"
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
		return err
	}

	logging.Setup(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Options{Attempts: cfg.DB.Attempts})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var (
		transactionService  = transaction.NewService(txStore.New(db))
		categoryService     = category.NewService(categoryStore.New(db))
		budgetService       = budget.NewService(budgetStore.New(db))
		goalService         = goal.NewService(goalStore.New(db))
		todoService         = todo.NewService(todoStore.New(db))
		recurringService    = recurring.NewService(recurringStore.New(db))
		notificationService = notification.NewService(notificationStore.New(db))
		profileService      = profile.NewService(profileStore.New(db))
		subscriptionService = subscription.NewService(subscriptionStore.New(db))
		categorizeService   = categorize.NewService(categorizeStore.New(db))
		adminService        = admin.NewService(adminStore.New(db))
		importService       = importer.NewService(transactionService, categoryService, categorizeService)
		exportService       = export.NewService(transactionService, budgetService, todoService, categoryService, profileService)
	)

	handlers := financeflowHttp.Handlers{
		Access:       accessHandler.NewHandler(profileService, subscriptionService),
		Profile:      profileHandler.NewHandler(profileService),
		Transactions: txHandler.NewHandler(transactionService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Goals:        goalHandler.NewHandler(goalService),
		Todos:        todoHandler.NewHandler(todoService),
		Recurring:    recurringHandler.NewHandler(recurringService),
		Notifications: notificationHandler.NewHandler(notificationService, notificationHandler.Sources{
			Transactions: transactionService,
			Budgets:      budgetService,
			Categories:   categoryService,
			Todos:        todoService,
			Recurring:    recurringService,
			Goals:        goalService,
		}, loc),
		Analytics: analyticsHandler.NewHandler(analyticsHandler.Services{
			Transactions: transactionService,
			Budgets:      budgetService,
			Categories:   categoryService,
			Profiles:     profileService,
			Goals:        goalService,
			Recurring:    recurringService,
		}, loc),
		Export:     exportHandler.NewHandler(exportService),
		Import:     importHandler.NewHandler(importService),
		Categorize: categorizeHandler.NewHandler(categorizeService),
		Admin:      adminHandler.NewHandler(adminService),
	}

	router := financeflowHttp.New(handlers, financeflowHttp.Options{
		Verifier:    auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Roles:       adminService,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "timezone", loc.String())
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

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
