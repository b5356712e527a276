package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coinpulse/internal/logging"
	"coinpulse/internal/models"
)

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logging.Info().Msg("Database connection established")

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	logging.Info().Msg("Database migration completed")
	return conn, nil
}

// Config is shared by every dialector so that driver errors such as unique
// violations surface as gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Preferences{},
		&models.Vote{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// gormWriter routes GORM's logger into zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	l := logging.WithComponent("gorm")
	l.Warn().Msgf(format, args...)
}
