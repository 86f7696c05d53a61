package reports

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jaswdr/faker"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

var fake = faker.New()

// fixtureSchema mirrors the external schema contract of the provisioned
// dataset: column names must match the production queries exactly.
const fixtureSchema = `
CREATE TABLE hubs (
    hub_id   INTEGER PRIMARY KEY,
    hub_name TEXT NOT NULL,
    hub_city TEXT NOT NULL
);
CREATE TABLE stores (
    store_id INTEGER PRIMARY KEY,
    hub_id   INTEGER NOT NULL REFERENCES hubs(hub_id)
);
CREATE TABLE orders (
    order_id               INTEGER PRIMARY KEY,
    store_id               INTEGER NOT NULL REFERENCES stores(store_id),
    order_status           TEXT NOT NULL,
    order_amount           REAL NOT NULL,
    order_created_year     INTEGER NOT NULL,
    order_created_month    INTEGER NOT NULL,
    order_created_day      INTEGER NOT NULL,
    order_moment_collected TEXT,
    order_moment_delivered TEXT
);
CREATE TABLE drivers (
    driver_id INTEGER PRIMARY KEY
);
CREATE TABLE deliveries (
    delivery_id              INTEGER PRIMARY KEY,
    delivery_order_id        INTEGER NOT NULL REFERENCES orders(order_id),
    driver_id                INTEGER NOT NULL REFERENCES drivers(driver_id),
    delivery_distance_meters REAL NOT NULL,
    delivery_status          TEXT NOT NULL
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "e_commerce.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)
	return db
}

func seedHub(t *testing.T, db *sql.DB, id int, city, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO hubs (hub_id, hub_city, hub_name) VALUES (?, ?, ?)`, id, city, name)
	require.NoError(t, err)
}

func seedStore(t *testing.T, db *sql.DB, id, hubID int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO stores (store_id, hub_id) VALUES (?, ?)`, id, hubID)
	require.NoError(t, err)
}

type orderFixture struct {
	id        int
	storeID   int
	status    string
	amount    float64
	year      int
	month     int
	day       int
	collected sql.NullString
	delivered sql.NullString
}

func seedOrder(t *testing.T, db *sql.DB, o orderFixture) {
	t.Helper()
	_, err := db.Exec(`
        INSERT INTO orders (
            order_id, store_id, order_status, order_amount,
            order_created_year, order_created_month, order_created_day,
            order_moment_collected, order_moment_delivered
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.id, o.storeID, o.status, o.amount,
		o.year, o.month, o.day,
		o.collected, o.delivered,
	)
	require.NoError(t, err)
}

func seedDriver(t *testing.T, db *sql.DB, id int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO drivers (driver_id) VALUES (?)`, id)
	require.NoError(t, err)
}

func seedDelivery(t *testing.T, db *sql.DB, id, orderID, driverID int, distance float64, status string) {
	t.Helper()
	_, err := db.Exec(`
        INSERT INTO deliveries (
            delivery_id, delivery_order_id, driver_id,
            delivery_distance_meters, delivery_status
        ) VALUES (?, ?, ?, ?, ?)`,
		id, orderID, driverID, distance, status,
	)
	require.NoError(t, err)
}

func moment(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
