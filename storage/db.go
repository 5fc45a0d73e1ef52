package storage

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres with pooling defaults and runs the schema
// migration.
func Open(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, err
	}

	log.Info("Database connected and migrated")
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Chat{},
		&ChatParticipant{},
		&ChatTransfer{},
		&LawyerAssignment{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
