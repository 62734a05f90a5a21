package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql" // Register mysql driver
	_ "github.com/lib/pq"              // Register postgres driver
	"github.com/salesboard/salesboard/internal/core/sales"
	_ "modernc.org/sqlite" // Register sqlite driver
)

const connectPingTimeout = 5 * time.Second

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// driverNames maps source kinds to database/sql driver names.
var driverNames = map[string]string{
	KindPostgres: "postgres",
	KindSQLite:   "sqlite",
	KindMySQL:    "mysql",
}

// SQLSource reads the sales columns from a table or view.
//
// The table must expose every schema column under its CSV name. Rows are read
// in (date, store_nbr, family) order so repeated loads see the same row order.
// The source is read-only: it never creates or alters schema.
type SQLSource struct {
	name  string
	db    *sql.DB
	table string
	query string
}

// OpenSQLSource opens dsn with the driver for kind and verifies connectivity.
func OpenSQLSource(name, kind, dsn, table string) (*SQLSource, error) {
	driver, ok := driverNames[kind]
	if !ok {
		return nil, fmt.Errorf("source %q: unsupported sql kind %q", name, kind)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("source %q: failed to open %s database: %w", name, kind, err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("source %q: failed to ping %s database: %w", name, kind, err)
	}

	var placeholder sq.PlaceholderFormat = sq.Question
	if kind == KindPostgres {
		placeholder = sq.Dollar
	}

	src, err := NewSQLSource(name, db, table, placeholder)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("[Source] SQL source ready", "source", name, "driver", driver, "table", table)
	return src, nil
}

// NewSQLSource wraps an open database. The caller keeps ownership of db
// unless it closes the source.
func NewSQLSource(name string, db *sql.DB, table string, placeholder sq.PlaceholderFormat) (*SQLSource, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("source %q: invalid table name %q", name, table)
	}

	columns := make([]string, len(sales.Columns))
	for i, c := range sales.Columns {
		columns[i] = string(c)
	}

	query, _, err := sq.Select(columns...).
		From(table).
		OrderBy(string(sales.ColDate), string(sales.ColStoreNbr), string(sales.ColFamily)).
		PlaceholderFormat(placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("source %q: building query: %w", name, err)
	}

	return &SQLSource{name: name, db: db, table: table, query: query}, nil
}

func (s *SQLSource) Name() string { return s.name }

// Query returns the SELECT statement the source runs.
func (s *SQLSource) Query() string { return s.query }

// Fetch runs the SELECT and converts every row.
func (s *SQLSource) Fetch(ctx context.Context) ([]sales.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("source %q: failed to query %s: %w", s.name, s.table, err)
	}
	defer rows.Close()

	raw := make([]interface{}, len(sales.Columns))
	dest := make([]interface{}, len(sales.Columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	values := make(map[sales.Column]interface{}, len(sales.Columns))

	var records []sales.Record
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("source %q: failed to scan row: %w", s.name, err)
		}
		for i, c := range sales.Columns {
			values[c] = raw[i]
		}
		rec, err := sales.FromValues(values)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w: row %d: %v", s.name, ErrMalformed, len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source %q: error iterating rows: %w", s.name, err)
	}

	slog.Info("[Source] Read SQL table", "source", s.name, "table", s.table, "rows", len(records))
	return records, nil
}

// Close releases the database handle.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
