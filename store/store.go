package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xERR0R/zonegen/config"
	"github.com/0xERR0R/zonegen/log"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// Store is the zone database
type Store struct {
	db *gorm.DB
}

func logger() *logrus.Entry {
	return log.PrefixedLog("store")
}

// Dialector returns the gorm dialector for the configured driver
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DBDriverSqlite:
		return sqlite.Open(cfg.DSN), nil
	case config.DBDriverMysql:
		return mysql.Open(cfg.DSN), nil
	case config.DBDriverPostgres:
		return postgres.Open(cfg.DSN), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
}

// Open connects to the configured database and migrates the schema
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	return OpenDialector(ctx, dialector, cfg.ConnectAttempts, cfg.ConnectCooldown.ToDuration())
}

// OpenDialector connects with dialector, trying up to attempts times
func OpenDialector(ctx context.Context, dialector gorm.Dialector, attempts uint, cooldown time.Duration) (*Store, error) {
	var db *gorm.DB

	err := retry.Do(
		func() (err error) {
			db, err = gorm.Open(dialector, &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Silent),
			})

			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(cooldown),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger().Warnf("can't connect to database, attempt %d/%d: %s", n+1, attempts, err)
		}))
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return nil, fmt.Errorf("can't perform auto migration: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Save inserts or updates rows
func (s *Store) Save(ctx context.Context, rows ...interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Save(row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
