package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/okarlsson/paysplit/docs"
	"github.com/okarlsson/paysplit/internal/balance"
	"github.com/okarlsson/paysplit/internal/config"
	"github.com/okarlsson/paysplit/internal/database"
	"github.com/okarlsson/paysplit/internal/expense"
	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/notification"
	"github.com/okarlsson/paysplit/internal/platform/blob"
	"github.com/okarlsson/paysplit/internal/platform/queue"
	"github.com/okarlsson/paysplit/internal/settlement"
	"github.com/okarlsson/paysplit/internal/user"
	"github.com/okarlsson/paysplit/pkg/logging"
	mw "github.com/okarlsson/paysplit/pkg/middleware"
)

// @title          Payment Splitter API
// @version        1.0
// @description    Shared-expense ledger with CSV batch imports and settlement suggestions
// @BasePath       /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	blobs, err := blob.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		slog.Error("failed to build blob store", "error", err)
		os.Exit(1)
	}

	uploads, err := queue.NewSQSQueue(ctx, cfg.SQSQueueURL, cfg.SQSRegion, cfg.SQSEndpoint)
	if err != nil {
		slog.Error("failed to build upload queue", "error", err)
		os.Exit(1)
	}

	mailer := notification.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	notifier := notification.NewNotifier(mailer)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature, including the CSV upload pipeline
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, notifier)
	expenseHandler := expense.NewHandler(expenseService, blobs, uploads)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, groupRepo, notifier)
	settlementHandler := settlement.NewHandler(settlementService)

	// Balance feature
	balanceRepo := balance.NewRepository(db)
	balanceService := balance.NewService(balanceRepo, groupRepo)
	balanceHandler := balance.NewHandler(balanceService)

	// Upload consumer
	consumer := expense.NewConsumer(uploads, blobs, expenseService, cfg.SQSMaxMessages, cfg.SQSPollWaitSeconds)
	go consumer.Run(ctx)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.UserIDMiddleware)

		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/balances", balanceHandler.Routes())
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
