package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/justestif/go-song-cluster-explorer/internal/songs"
)

// SQLiteSource reads the song table from a SQLite database file.
type SQLiteSource struct {
	db    *sql.DB
	path  string
	table string
}

// OpenSQLite opens the database at path for reading the named table.
func OpenSQLite(path, table string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	return &SQLiteSource{db: db, path: path, table: table}, nil
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Table selects every required column as text. NULL becomes an empty cell.
// A table lacking a required column fails with songs.ErrMissingColumn.
func (s *SQLiteSource) Table(ctx context.Context) (songs.Table, error) {
	names, err := s.columns(ctx)
	if err != nil {
		return songs.Table{}, err
	}
	if err := songs.CheckColumns(names); err != nil {
		return songs.Table{}, fmt.Errorf("table %s: %w", s.table, err)
	}

	cols := make([]string, len(songs.RequiredColumns))
	for i, c := range songs.RequiredColumns {
		cols[i] = fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", quoteIdent(c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteIdent(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return songs.Table{}, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var cells [][]string
	for rows.Next() {
		record := make([]string, len(songs.RequiredColumns))
		dest := make([]any, len(record))
		for i := range record {
			dest[i] = &record[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return songs.Table{}, fmt.Errorf("scanning song row: %w", err)
		}
		cells = append(cells, record)
	}
	if err := rows.Err(); err != nil {
		return songs.Table{}, fmt.Errorf("iterating songs: %w", err)
	}

	return songs.Table{Header: header(), Rows: cells}, nil
}

// columns returns the column names of the table. SQLite reads a quoted
// identifier that names no column as a string literal, so the select list
// is only built once every name is known to exist.
func (s *SQLiteSource) columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", quoteIdent(s.table)))
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return names, nil
}

func (s *SQLiteSource) String() string {
	return "sqlite:" + s.path + "#" + s.table
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
