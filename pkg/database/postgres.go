package database

import (
	"fmt"
	"linkPulse/domain"
	"linkPulse/pkg/config"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitPostgres opens the connection pool. TranslateError is enabled so
// uniqueness violations surface as gorm.ErrDuplicatedKey, which the
// conversion ingest path relies on.
func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates the tracking tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Offer{},
		&domain.OfferTracking{},
		&domain.OfferRules{},
		&domain.OfferGeoRule{},
		&domain.OfferDeviceRule{},
		&domain.OfferTimeTargeting{},
		&domain.OfferCap{},
		&domain.Affiliate{},
		&domain.AffiliateOfferAccess{},
		&domain.Click{},
		&domain.Conversion{},
		&domain.ConversionStatusHistory{},
		&domain.FraudEvent{},
	)
}
