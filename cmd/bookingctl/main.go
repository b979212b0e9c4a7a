package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/LavaJover/shvark-booking-service/internal/app/setup"
	"github.com/LavaJover/shvark-booking-service/internal/cli"
	"github.com/LavaJover/shvark-booking-service/internal/config"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	root := cli.NewRootCommand(openRuntime)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

func openRuntime(ctx context.Context, opts *cli.RootOptions) (*cli.Runtime, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.LogConfig.LogLevel = "debug"
	}
	// логи в stderr, stdout только для результата команды
	cfg.LogConfig.LogOutput = "stderr"

	appLogger, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(appLogger)

	db := postgres.MustInitDB(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	runner, err := migrate.NewRunner(db, cfg.BookingDB.MigrationsPath, appLogger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	deps, err := setup.InitializeDependencies(cfg, db, appLogger, nil)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &cli.Runtime{
		Audit:      uc.AuditUsecase,
		Readiness:  uc.ReadinessUsecase,
		Migrations: runner,
		Close: func() error {
			uc.Drain()
			deps.Close()
			logCloser.Close()
			return sqlDB.Close()
		},
	}, nil
}
