package sqlstore

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jwalitptl/hospital-admin/internal/config"
	"github.com/jwalitptl/hospital-admin/internal/repository"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
	"github.com/jwalitptl/hospital-admin/pkg/metrics"
)

// Store is the single shared handle on the relational store.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
	logger  *logger.Logger
	metrics *metrics.Metrics
	tables  map[*schema.Entity]*tableRepository
}

type Option func(*Store)

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(dialect.Driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection for the whole process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db, dialect, opts...), nil
}

// New wraps an already opened handle.
func New(db *sqlx.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  logger.Nop(),
		tables:  make(map[*schema.Entity]*tableRepository),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range schema.All() {
		s.tables[e] = newTableRepository(s, e)
	}
	return s
}

// DSN builds the driver connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			portOr(cfg.Port, 5432),
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(portOr(cfg.Port, 3306)))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		// report matched rows so an update with unchanged values is not "not found"
		mc.ClientFoundRows = true
		return mc.FormatDSN()
	default:
		sep := "?"
		if strings.Contains(cfg.Path, "?") {
			sep = "&"
		}
		return "file:" + cfg.Path + sep + "_foreign_keys=on"
	}
}

func portOr(port, fallback int) int {
	if port == 0 {
		return fallback
	}
	return port
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Table returns the repository for entity. It panics for an entity not
// defined in the schema package.
func (s *Store) Table(entity *schema.Entity) repository.TableRepository {
	t, ok := s.tables[entity]
	if !ok {
		panic(fmt.Sprintf("sqlstore: unknown entity %s", entity.Name))
	}
	return t
}

func (s *Store) Stats() repository.StatsRepository {
	return &statsRepository{store: s}
}
