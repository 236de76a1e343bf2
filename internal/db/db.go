// Package db reads the song table from PostgreSQL or SQLite.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Songs returns a source reading the named song table.
func (db *DB) Songs(table string) *PostgresSource {
	return &PostgresSource{pool: db.pool, table: table}
}

// PostgresSource reads the song table through a pgx pool.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// Table selects every required column as text. NULL becomes an empty cell.
// A table lacking a required column fails with songs.ErrMissingColumn.
func (s *PostgresSource) Table(ctx context.Context) (songs.Table, error) {
	names, err := s.columns(ctx)
	if err != nil {
		return songs.Table{}, err
	}
	if err := songs.CheckColumns(names); err != nil {
		return songs.Table{}, fmt.Errorf("table %s: %w", s.table, err)
	}

	cols := make([]string, len(songs.RequiredColumns))
	for i, c := range songs.RequiredColumns {
		cols[i] = fmt.Sprintf("COALESCE(%s::text, '')", pgx.Identifier{c}.Sanitize())
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return songs.Table{}, fmt.Errorf("querying songs: %w", err)
	}

	cells, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]string, error) {
		record := make([]string, len(songs.RequiredColumns))
		dest := make([]any, len(record))
		for i := range record {
			dest[i] = &record[i]
		}
		err := row.Scan(dest...)
		return record, err
	})
	if err != nil {
		return songs.Table{}, fmt.Errorf("scanning songs: %w", err)
	}

	return songs.Table{Header: header(), Rows: cells}, nil
}

// columns returns the column names of the table from an empty result.
func (s *PostgresSource) columns(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", pgx.Identifier{s.table}.Sanitize()))
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return names, nil
}

func (s *PostgresSource) String() string {
	return "postgres:" + s.table
}

func header() []string {
	return append([]string(nil), songs.RequiredColumns...)
}
