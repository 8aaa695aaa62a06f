// Package postgres stores groups, schedule entries and users in PostgreSQL
// through GORM. Foreign keys with ON DELETE RESTRICT keep referenced groups
// from being deleted.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const (
	maxOpenConns = 10
	maxIdleConns = 5
)

// Store implements domain.Stores.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ domain.Stores = (*Store)(nil)

// Open connects, pings and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required for postgres store")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return New(ctx, db)
}

// New wraps an open connection and migrates the schema.
func New(ctx context.Context, db *gorm.DB) (*Store, error) {
	if err := db.WithContext(ctx).AutoMigrate(&groupModel{}, &entryModel{}, &userModel{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps GORM's translated driver errors onto domain sentinels.
// dup is what a unique violation means for the calling operation; a
// foreign-key violation on insert or update means the referenced group is gone.
func translate(op string, err error, dup error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey) && dup != nil:
		return fmt.Errorf("%s: %w", op, dup)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: group: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
