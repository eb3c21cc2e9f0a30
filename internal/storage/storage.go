package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_postgres.sql
var schemaPostgres string

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DB wraps a sql.DB for the archery score store.
type DB struct {
	conn   *sql.DB
	driver Driver
}

// Open opens (or creates) the database and applies the schema. For SQLite the
// dsn is a file path or ":memory:"; for Postgres it is a connection URL.
func Open(ctx context.Context, driver Driver, dsn string) (*DB, error) {
	var drvName, schema string
	inMemory := false
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == ":memory:" {
			inMemory = true
			dsn = "file::memory:?_pragma=foreign_keys(1)"
		} else {
			dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dsn)
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
	default:
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}

	conn, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if inMemory {
		// Every connection to ":memory:" is a separate database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn, driver: driver}, nil
}

// Driver reports the backend the handle was opened with.
func (db *DB) Driver() Driver {
	return db.driver
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// builder accumulates a SQL statement and its arguments, emitting the
// placeholder style of the driver.
type builder struct {
	driver Driver
	sb     strings.Builder
	args   []any
}

func (db *DB) newBuilder(base string) *builder {
	b := &builder{driver: db.driver}
	b.sb.WriteString(base)
	return b
}

// arg records v and returns its placeholder.
func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	if b.driver == DriverPostgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// in returns a parenthesized placeholder list for vals, e.g. "(?,?,?)".
func (b *builder) in(vals []string) string {
	ph := make([]string, len(vals))
	for i, v := range vals {
		ph[i] = b.arg(v)
	}
	return "(" + strings.Join(ph, ",") + ")"
}

func (b *builder) write(parts ...string) {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
}

func (b *builder) String() string {
	return b.sb.String()
}
