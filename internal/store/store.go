// Package store is the relational persistence boundary. It runs on postgres
// in production and on sqlite for local development and tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// Store wraps a gorm handle. Every operation runs under queryTimeout.
type Store struct {
	db           *gorm.DB
	queryTimeout time.Duration
	nowFunc      func() time.Time
}

// Open builds a Store without touching the network: the first query is the
// first connection attempt, so a database that is down at boot only shows up
// as failing queries.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing:                     true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return New(db, cfg.QueryTimeout), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB, queryTimeout time.Duration) *Store {
	return &Store{db: db, queryTimeout: queryTimeout, nowFunc: time.Now}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates every table.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	// rows written before the search columns existed
	var stale []models.Product
	if err := db.Where("search_name = ?", "").Find(&stale).Error; err != nil {
		return translate("find unindexed products", err)
	}
	for i := range stale {
		if err := refreshSearch(db, &stale[i]); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts the given rows, skipping any whose key already exists.
func (s *Store) Seed(ctx context.Context, categories []models.Category, products []models.Product, promos []models.Promo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true})
		if len(categories) > 0 {
			if err := ignore.Create(&categories).Error; err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
		if len(products) > 0 {
			if err := ignore.Create(&products).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
		if len(promos) > 0 {
			if err := ignore.Create(&promos).Error; err != nil {
				return fmt.Errorf("seed promos: %w", err)
			}
		}
		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		// explicit ids leave the serial sequences behind
		for _, table := range []string{"categories", "products", "promos"} {
			sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1))", table)
			if err := tx.Exec(sql).Error; err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// translate maps gorm errors onto the domain sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
