package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DefaultTimeout bounds every store round trip when none is configured.
const DefaultTimeout = 10 * time.Second

// Store is the typed accessor over the relational store. Every call runs
// under its own deadline.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sqlDB, err := s.db.DB()
	if err != nil {
		return WrapErr("ping", err)
	}
	return WrapErr("ping", sqlDB.PingContext(ctx))
}
