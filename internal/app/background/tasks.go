package background

import (
	"context"
	"log"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/config"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	auditusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/audit"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
)

type BackgroundTasks struct {
	Config           *config.BookingConfig
	ReadinessUsecase readinessusecase.ReadinessUsecase
	AuditUsecase     auditusecase.AuditUsecase
	Listener         *changefeed.Listener
	// HealthWatch - опрос доступности БД для gRPC health.
	HealthWatch func(ctx context.Context)
}

func NewBackgroundTasks(
	cfg *config.BookingConfig,
	readinessUC readinessusecase.ReadinessUsecase,
	auditUC auditusecase.AuditUsecase,
	listener *changefeed.Listener,
	healthWatch func(ctx context.Context),
) *BackgroundTasks {
	return &BackgroundTasks{
		Config:           cfg,
		ReadinessUsecase: readinessUC,
		AuditUsecase:     auditUC,
		Listener:         listener,
		HealthWatch:      healthWatch,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.Config.Readiness.Enabled {
		go bt.startReadinessChecks(ctx)
		go bt.startReadinessReminders(ctx)
	}
	if bt.Config.Auditor.MonitorEnabled {
		go bt.startConsistencyMonitor(ctx)
	}
	if bt.Listener != nil {
		go bt.startChangeFeed(ctx)
	}
	if bt.HealthWatch != nil {
		go bt.HealthWatch(ctx)
	}
}

func (bt *BackgroundTasks) startReadinessChecks(ctx context.Context) {
	ticker := time.NewTicker(bt.Config.Readiness.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.ReadinessUsecase.DispatchReadinessChecks(ctx); err != nil {
				log.Printf("Readiness dispatch error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startReadinessReminders(ctx context.Context) {
	ticker := time.NewTicker(bt.Config.Readiness.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.ReadinessUsecase.SendReminders(ctx); err != nil {
				log.Printf("Readiness reminders error: %v\n", err)
			}
			if _, err := bt.ReadinessUsecase.SendMovementReminders(ctx); err != nil {
				log.Printf("Movement reminders error: %v\n", err)
			}
			if _, err := bt.ReadinessUsecase.NotifyExpiredOrders(ctx); err != nil {
				log.Printf("Expired orders notify error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startConsistencyMonitor(ctx context.Context) {
	ticker := time.NewTicker(bt.Config.Auditor.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.AuditUsecase.RunDiagnostics(ctx); err != nil {
				log.Printf("Consistency monitor error: %v\n", err)
			}
		}
	}
}

// startChangeFeed restarts the listener after an error until ctx is done.
func (bt *BackgroundTasks) startChangeFeed(ctx context.Context) {
	for {
		if err := bt.Listener.Run(ctx); err != nil {
			log.Printf("Change feed error: %v\n", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}
