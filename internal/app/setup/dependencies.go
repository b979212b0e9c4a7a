package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-booking-service/internal/config"
	"github.com/LavaJover/shvark-booking-service/internal/domain"
	publisher "github.com/LavaJover/shvark-booking-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/repository/consistency/engine"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.BookingConfig
	DB             *gorm.DB
	Logger         *slog.Logger
	Metrics        *metrics.BookingMetrics
	OrderPublisher *publisher.KafkaPublisher
	Journal        *logger.PGOrderJournal
	Sink           domain.NotificationSink
	Feed           *changefeed.Feed
	Repositories   *Repositories
}

type Repositories struct {
	OrderRepo     domain.OrderRepository
	ReadinessRepo domain.ReadinessRepository
	PaymentRepo   domain.PaymentRepository
	ContactRepo   domain.ContactRepository
	Consistency   *engine.ConsistencyEngine
}

// InitializeDependencies wires infrastructure around an open database. reg may
// be nil (CLI), then metrics are not collected.
func InitializeDependencies(cfg *config.BookingConfig, db *gorm.DB, log *slog.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	if log == nil {
		log = slog.Default()
	}

	var bookingMetrics *metrics.BookingMetrics
	if reg != nil {
		bookingMetrics = metrics.NewBookingMetrics(reg)
	}

	orderPublisher, err := initOrderPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("order publisher: %w", err)
	}

	repos := &Repositories{
		OrderRepo:     repository.NewDefaultOrderRepository(db),
		ReadinessRepo: repository.NewDefaultReadinessRepository(db),
		PaymentRepo:   repository.NewDefaultPaymentRepository(db),
		ContactRepo:   repository.NewDefaultContactRepository(db),
		Consistency:   engine.NewDefaultEngine(db, log),
	}

	return &Dependencies{
		Config:         cfg,
		DB:             db,
		Logger:         log,
		Metrics:        bookingMetrics,
		OrderPublisher: orderPublisher,
		Journal:        logger.NewPGOrderJournal(db),
		Sink:           initSink(cfg, log),
		Feed:           changefeed.NewFeed(log),
		Repositories:   repos,
	}, nil
}

func initOrderPublisher(cfg *config.BookingConfig) (*publisher.KafkaPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka enabled but no brokers configured")
	}
	return publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderEventsTopic), nil
}

func initSink(cfg *config.BookingConfig, log *slog.Logger) domain.NotificationSink {
	if cfg.Notifier.GatewayURL == "" {
		log.Info("notifier gateway not configured, messages are logged only")
		return notifier.NewLogNotifier(log)
	}
	return notifier.NewWhatsAppNotifier(cfg.Notifier.GatewayURL, cfg.Notifier.Token, cfg.Notifier.Timeout)
}

// Close releases connections held by the dependencies (not the database).
func (d *Dependencies) Close() error {
	if d.OrderPublisher != nil {
		return d.OrderPublisher.Close()
	}
	return nil
}
