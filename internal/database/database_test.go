package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e_commerce.db")

	// Create a real database file first; Open is read-only.
	seed, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = seed.Exec(`CREATE TABLE hubs (hub_id INTEGER PRIMARY KEY, hub_name TEXT, hub_city TEXT)`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM hubs`).Scan(&n))
	assert.Zero(t, n)

	// Read-only handle must reject writes.
	_, err = db.Exec(`INSERT INTO hubs (hub_name, hub_city) VALUES ('h', 'c')`)
	assert.Error(t, err)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}
