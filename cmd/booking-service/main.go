package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/app/background"
	"github.com/LavaJover/shvark-booking-service/internal/app/setup"
	"github.com/LavaJover/shvark-booking-service/internal/config"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v\n", err)
	}
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	// Init database
	db := postgres.MustInitDB(cfg)
	if err := migrate.Run(db, cfg.BookingDB.MigrationsPath, appLogger); err != nil {
		log.Fatalf("failed to apply migrations: %v\n", err)
	}

	deps, err := setup.InitializeDependencies(cfg, db, appLogger, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v\n", err)
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v\n", err)
	}

	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// gRPC health
	grpcServer := grpcapi.NewServer(ping, 15*time.Second)
	go func() {
		log.Printf("gRPC server started on %s:%s\n", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
		if err := grpcServer.ListenAndServe(cfg.GRPCServer.Host, cfg.GRPCServer.Port); err != nil {
			log.Fatalf("failed to serve grpc: %v\n", err)
		}
	}()

	listener := changefeed.NewListener(cfg.BookingDB.Dsn, changefeed.DefaultChannel, deps.Feed, appLogger)
	tasks := background.NewBackgroundTasks(cfg, uc.ReadinessUsecase, uc.AuditUsecase, listener, grpcServer.WatchHealth)
	tasks.StartAll(ctx)

	// HTTP
	if cfg.LogConfig.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(&handlers.Handler{
		Orders:    uc.OrderUsecase,
		Readiness: uc.ReadinessUsecase,
		Payments:  uc.PaymentUsecase,
		Audit:     uc.AuditUsecase,
		Journal:   deps.Journal,
		Feed:      deps.Feed,
		Ping:      ping,
	}, prometheus.DefaultGatherer)

	httpServer := handlers.NewServer(ctx, fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port), router, cfg.HTTPServer.ReadTimeout)
	go func() {
		log.Printf("HTTP server started on %s\n", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve http: %v\n", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v\n", err)
	}
	grpcServer.GracefulStop()
	uc.Drain()
}
