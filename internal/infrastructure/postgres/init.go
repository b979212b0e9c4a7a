package postgres

import (
	"log"

	"github.com/LavaJover/shvark-booking-service/internal/config"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config shared by production and test connections. TranslateError maps
// unique violations to gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

func MustInitDB(cfg *config.BookingConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.BookingDB.Dsn), GormConfig())
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err)
	}
	sqlDB.SetMaxOpenConns(cfg.BookingDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.BookingDB.MaxIdleConns)

	return db
}

// AllModels lists every table owned by the service. Schema in production comes
// from SQL migrations; tests AutoMigrate these.
func AllModels() []interface{} {
	return []interface{}{
		&models.CustomerModel{},
		&models.SpecialistModel{},
		&models.OrderModel{},
		&models.OrderSpecialistModel{},
		&models.PaymentConfirmationModel{},
		&models.CustomerWalletModel{},
		&models.CustomerWalletTransactionModel{},
		&logger.OrderEventLog{},
	}
}
