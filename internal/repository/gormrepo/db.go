// Package gormrepo implements the repository interfaces on top of GORM.
//
// Two backends are supported:
//   - SQLite through modernc.org/sqlite (pure Go, no CGo). The default, and
//     what the tests use with ":memory:".
//   - PostgreSQL through gorm.io/driver/postgres (pgx underneath) for
//     production deployments.
//
// One *DB value implements every repository interface. Services only see
// the interfaces, so they never import this package.
package gormrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"

	// Registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the backend.
type Config struct {
	Driver string // DriverSQLite (default) or DriverPostgres
	DSN    string // file path or ":memory:" for SQLite, connection URL for Postgres
	Debug  bool   // log every SQL statement
}

// DB wraps a gorm handle. It owns the underlying connection pool.
type DB struct {
	gorm *gorm.DB
}

// Open connects to the configured backend and migrates the schema.
//
// Foreign keys are deliberately not created: references between job
// applications, interviews, BD staff and developers are checked by the
// services at write time, and deleting a referenced row is governed by the
// configured delete policy instead of the database.
func Open(cfg Config) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "", DriverSQLite:
		conn, err := openSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.New(sqlite.Config{DriverName: DriverSQLite, Conn: conn})
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("gormrepo: postgres requires a DSN")
		}
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("gormrepo: unknown driver %q", cfg.Driver)
	}

	logLevel := gormlogger.Silent
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	g, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gormrepo: opening %s database: %w", driverName(cfg.Driver), err)
	}

	db := &DB{gorm: g}
	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gormrepo: running migrations: %w", err)
	}

	return db, nil
}

// openSQLite opens the database/sql pool handed to the GORM dialector.
//
// ":memory:" gives every connection its own private database, so the pool
// is pinned to one connection. File databases get WAL mode (readers don't
// block on a writer) and a busy timeout via DSN pragmas, which modernc
// applies to every new connection.
func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("gormrepo: sqlite requires a database path")
	}

	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("gormrepo: opening sqlite: %w", err)
	}
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gormrepo: pinging sqlite: %w", err)
	}
	return conn, nil
}

func (db *DB) migrate() error {
	return db.gorm.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Developer{},
		&model.BD{},
		&model.JobApplication{},
		&model.InterviewSchedule{},
	)
}

// Ping checks the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func driverName(d string) string {
	if d == "" {
		return DriverSQLite
	}
	return d
}

// isUniqueViolation recognises a unique-constraint failure from either
// backend. GORM translates Postgres errors to ErrDuplicatedKey; modernc
// errors are not translated and are matched on their message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// keyConflict works out which unique column a failed insert hit. Developers
// and BD staff have two: their key column and email.
func (db *DB) keyConflict(ctx context.Context, table any, resource, keyColumn, key, email string) error {
	var n int64
	if err := db.gorm.WithContext(ctx).Model(table).Where(keyColumn+" = ?", key).Count(&n).Error; err != nil {
		return fmt.Errorf("gormrepo: checking %s %s conflict: %w", resource, keyColumn, err)
	}
	if n > 0 {
		return apperror.Duplicate(resource, keyColumn, key)
	}
	return apperror.Duplicate(resource, "email", email)
}

// likePattern builds a case-insensitive "contains" pattern. LIKE wildcards
// in the input are escaped so they match literally; queries pair it with
// ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// page applies limit and offset. A non-positive limit means "all rows".
func page(q *gorm.DB, opts repository.ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	return q
}

// updateAll writes every column of value except created_at and
// associations, and reports how many rows matched its primary key.
func (db *DB) updateAll(ctx context.Context, value any) (int64, error) {
	res := db.gorm.WithContext(ctx).Model(value).Select("*").Omit("created_at", clause.Associations).Updates(value)
	return res.RowsAffected, res.Error
}
