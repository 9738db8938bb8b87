// Package repository persists users, job rules, daily stats and QA reviews.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
	"github.com/okian/sourceqa/pkg/metrics"
)

// Store is the relational store backing the sourcing and QA flows.
type Store struct {
	db  *gorm.DB
	log logger.Logger

	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// Open connects to MySQL and sizes the connection pool.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	s := New(db, opts...)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	sqlDB.SetMaxOpenConns(s.maxOpen)
	sqlDB.SetMaxIdleConns(s.maxIdle)
	sqlDB.SetConnMaxLifetime(s.maxLifetime)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return s, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:          db,
		log:         logger.Get().Named("repository"),
		maxOpen:     10,
		maxIdle:     5,
		maxLifetime: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates or updates every table the store uses.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(tables()...); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrStore, err)
	}
	s.log.Info(ctx, "schema migrated", logger.Int("tables", len(tables())))
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// observe records latency for op and normalizes err.
func (s *Store) observe(op string, start time.Time, err error) error {
	metrics.RecordStoreLatency(op, time.Since(start))
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	metrics.RecordErrorByComponent("repository", op)
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// UserByEmail resolves a user of any role.
func (s *Store) UserByEmail(ctx context.Context, email string) (u model.User, err error) {
	defer func(start time.Time) { err = s.observe("user_by_email", start, err) }(time.Now())

	var row userRow
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return model.User{}, err
	}
	return row.toModel(), nil
}

// AdminByEmail resolves a user holding the admin role.
func (s *Store) AdminByEmail(ctx context.Context, email string) (u model.User, err error) {
	defer func(start time.Time) { err = s.observe("admin_by_email", start, err) }(time.Now())

	var row userRow
	err = s.db.WithContext(ctx).
		Where("email = ? AND role = ?", email, model.RoleAdmin).
		First(&row).Error
	if err != nil {
		return model.User{}, err
	}
	return row.toModel(), nil
}

// Jobs lists every job rule with its owners.
func (s *Store) Jobs(ctx context.Context) (jobs []model.JobRule, err error) {
	defer func(start time.Time) { err = s.observe("jobs", start, err) }(time.Now())

	var rows []jobRow
	if err := s.db.WithContext(ctx).Preload("Owners").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	jobs = make([]model.JobRule, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.toModel())
	}
	return jobs, nil
}

// SkillNames lists the global skill vocabulary.
func (s *Store) SkillNames(ctx context.Context) (names []string, err error) {
	defer func(start time.Time) { err = s.observe("skill_names", start, err) }(time.Now())

	if err := s.db.WithContext(ctx).Model(&skillRow{}).Order("id").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
