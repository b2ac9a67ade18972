package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// Warehouse wraps a Snowflake connection pool for one target database.
// Pipeline tasks never share it directly; they open sessions from it.
// ⭐ SSOT: Snowflake 연결은 이 패키지에서만 생성
type Warehouse struct {
	db     *sql.DB
	dbName string
	logger *logger.Logger
}

// New opens a Snowflake connection for the given database and verifies it.
// Connection or credential failures surface immediately.
// ⭐ SSOT: 유일하게 sql.Open("snowflake", ...)를 호출하는 함수
func New(cfg config.SnowflakeConfig, database string, log *logger.Logger) (*Warehouse, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:      cfg.Account,
		User:         cfg.User,
		Password:     cfg.Password,
		Warehouse:    cfg.Warehouse,
		Database:     database,
		LoginTimeout: cfg.ConnTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping snowflake: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"account":   cfg.Account,
		"warehouse": cfg.Warehouse,
		"database":  database,
	}).Info("Connected to Snowflake")

	return &Warehouse{db: db, dbName: database, logger: log}, nil
}

// OpenSession returns a dedicated statement-execution session.
// The caller owns the session and must close it exactly once.
func (w *Warehouse) OpenSession(ctx context.Context) (contracts.Session, error) {
	conn, err := w.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse session: %w", err)
	}

	w.logger.WithField("database", w.dbName).Debug("Warehouse session opened")
	return &session{conn: conn, logger: w.logger}, nil
}

// Ping checks if the warehouse is reachable
func (w *Warehouse) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// Version returns the Snowflake server version
func (w *Warehouse) Version(ctx context.Context) (string, error) {
	var version string
	if err := w.db.QueryRowContext(ctx, "SELECT CURRENT_VERSION()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query snowflake version: %w", err)
	}
	return version, nil
}

// Database returns the database this warehouse handle is bound to
func (w *Warehouse) Database() string {
	return w.dbName
}

// Close closes the underlying connection pool
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// session is a dedicated driver connection implementing contracts.Session
type session struct {
	conn   *sql.Conn
	logger *logger.Logger
}

// Exec runs a single SQL statement on this session
func (s *session) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

// Close releases the underlying connection back to the pool
func (s *session) Close() error {
	s.logger.Debug("Warehouse session closed")
	return s.conn.Close()
}
