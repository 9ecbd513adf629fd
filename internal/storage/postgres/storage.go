package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/ordertrack/internal/config"
	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool the storage relies on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Postgres error codes the repositories react to.
const (
	codeUniqueViolation = "23505"
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// Options tunes storage initialization.
type Options struct {
	AutoMigrate     bool
	TrackingColumns string
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool     pgxPool
	logger   *slog.Logger
	tracking atomic.Bool
}

type orderRepository struct {
	storage *Storage
}

type historyRepository struct {
	storage *Storage
}

type menuRepository struct {
	storage *Storage
}

type adminRepository struct {
	storage *Storage
}

type sequenceAllocator struct {
	storage *Storage
}

// New connects to PostgreSQL, applies migrations when asked and detects
// whether the orders table carries tracking columns.
func New(ctx context.Context, dsn string, logger *slog.Logger, opts Options) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if opts.AutoMigrate {
		if err := runMigrations(ctx, dsn); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initCapabilities(ctx, opts.TrackingColumns); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) History() repository.HistoryRepository {
	return &historyRepository{storage: s}
}

func (s *Storage) Menu() repository.MenuRepository {
	return &menuRepository{storage: s}
}

func (s *Storage) Admins() repository.AdminRepository {
	return &adminRepository{storage: s}
}

func (s *Storage) Sequence() repository.SequenceAllocator {
	return &sequenceAllocator{storage: s}
}

// TrackingEnabled reports whether tracking columns are read and written.
func (s *Storage) TrackingEnabled() bool {
	return s.tracking.Load()
}

// DisableTracking switches the storage to the schema without tracking columns.
func (s *Storage) DisableTracking() {
	if s.tracking.Swap(false) {
		s.logger.Warn("tracking columns unavailable, continuing without tracking tokens")
	}
}

func (s *Storage) initCapabilities(ctx context.Context, mode string) error {
	switch mode {
	case config.TrackingColumnsEnabled:
		s.tracking.Store(true)
		return nil
	case config.TrackingColumnsDisabled:
		s.tracking.Store(false)
		return nil
	}

	const query = `SELECT COUNT(*) FROM information_schema.columns
                   WHERE table_schema = current_schema()
                     AND table_name = 'orders'
                     AND column_name IN ('tracking_token', 'tracking_token_expires_at')`
	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return fmt.Errorf("probe tracking columns: %w", err)
	}
	s.tracking.Store(count == 2)
	s.logger.Info("tracking columns detected", slog.Bool("enabled", count == 2))
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapTrackingError reports a missing tracking column or table as ErrTrackingUnsupported.
func mapTrackingError(err error) error {
	switch pgErrorCode(err) {
	case codeUndefinedColumn, codeUndefinedTable:
		return fmt.Errorf("%w: %v", domainErrors.ErrTrackingUnsupported, err)
	}
	return err
}
