package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"groundwork/internal/constants"
)

// Open opens the SQLite database at the given path, creating the parent
// directory if needed, and applies pragmas and the schema.
// _txlock=immediate makes BEGIN take a RESERVED lock, which serializes write
// transactions and prevents read-then-write races such as the failed-login
// counter update.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, err
	}

	if err := ApplyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(Schema()); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenInMemory opens a private in-memory database with the full schema.
// Used by tests.
func OpenInMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// A single connection keeps the in-memory database alive for its lifetime.
	db.SetMaxOpenConns(1)

	if err := ApplyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(Schema()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ApplyPragmas applies all SQLite pragmas from constants.SQLitePragmas.
// Must be called immediately after opening any database connection.
func ApplyPragmas(db *sql.DB) error {
	for _, pragma := range constants.SQLitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
