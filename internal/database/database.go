// Package database opens the read-only handle to the provisioned dataset.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a shared read connection to the SQLite dataset at path.
// The dataset never changes during a session, so one handle serves every
// query for the process lifetime. Failure here is fatal to the caller:
// the file is local, so an error implies corruption or permissions, not
// anything worth retrying.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to dataset %s: %w", path, err)
	}

	return db, nil
}
