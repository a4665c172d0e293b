package ledger

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens the ledger database at path, creating the parent folder
// and the schema when missing. The special path ":memory:" opens a private
// in-memory database.
func OpenSQLite(ctx context.Context, path string) (*bun.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, goerrors.New("ledger: database path is required", goerrors.CategoryBadInput)
	}

	dsn := "file::memory:?cache=shared&_fk=1"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "ledger: create database folder")
		}
		dsn = "file:" + filepath.ToSlash(path) + "?_fk=1&_busy_timeout=5000"
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "ledger: open sqlite")
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "ledger: create schema").
			WithMetadata(map[string]any{"path": path})
	}
	return db, nil
}
