package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/deliverydash/internal/models"
)

func mustRange(t *testing.T, start, end string) models.DateRange {
	t.Helper()
	r, err := models.NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestOrdersKPI_JanuaryScenario(t *testing.T) {
	db := newTestDB(t)
	seedHub(t, db, 1, "Porto Alegre", "Central Hub")
	seedStore(t, db, 1, 1)

	for i := 1; i <= 10; i++ {
		seedOrder(t, db, orderFixture{id: i, storeID: 1, status: "FINISHED", amount: 50, year: 2021, month: 1, day: i})
	}
	seedOrder(t, db, orderFixture{id: 11, storeID: 1, status: "CANCELED", amount: 30, year: 2021, month: 1, day: 12})
	seedOrder(t, db, orderFixture{id: 12, storeID: 1, status: "CANCELED", amount: 20, year: 2021, month: 1, day: 20})

	svc := NewService(db)
	kpi, err := svc.OrdersKPI(context.Background(), mustRange(t, "2021-01-01", "2021-01-31"))
	require.NoError(t, err)

	assert.Equal(t, 10, kpi.TotalOrders)
	assert.Equal(t, 2, kpi.CancelledOrders)
	assert.InDelta(t, 16.67, kpi.CancelledPercent, 0.001)
}

func TestOrdersKPI_EmptyRangeYieldsZeros(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	kpi, err := svc.OrdersKPI(context.Background(), mustRange(t, "2021-01-01", "2021-01-31"))
	require.NoError(t, err)

	assert.Zero(t, kpi.TotalOrders)
	assert.Zero(t, kpi.CancelledOrders)
	assert.Zero(t, kpi.CancelledPercent)
}

func TestOrdersByHub_GroupsAndRates(t *testing.T) {
	db := newTestDB(t)
	seedHub(t, db, 1, "Curitiba", "South Hub")
	seedHub(t, db, 2, "Belo Horizonte", "North Hub")
	seedStore(t, db, 1, 1)
	seedStore(t, db, 2, 2)

	// South Hub: 3 finished, 1 canceled -> 25% cancellation.
	seedOrder(t, db, orderFixture{id: 1, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 2, day: 1})
	seedOrder(t, db, orderFixture{id: 2, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 2, day: 2})
	seedOrder(t, db, orderFixture{id: 3, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 2, day: 3})
	seedOrder(t, db, orderFixture{id: 4, storeID: 1, status: "CANCELED", amount: 10, year: 2021, month: 2, day: 4})
	// North Hub: 1 finished only.
	seedOrder(t, db, orderFixture{id: 5, storeID: 2, status: "FINISHED", amount: 10, year: 2021, month: 2, day: 5})

	svc := NewService(db)
	rows, err := svc.OrdersByHub(context.Background(), mustRange(t, "2021-02-01", "2021-02-28"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by city; (city, hub) keys are unique.
	assert.Equal(t, "Belo Horizonte", rows[0].City)
	assert.Equal(t, "North Hub", rows[0].Hub)
	assert.Equal(t, 1, rows[0].TotalOrders)
	assert.Equal(t, 0, rows[0].CancelledOrders)
	assert.Zero(t, rows[0].CancelledPercent)

	assert.Equal(t, "Curitiba", rows[1].City)
	assert.Equal(t, "South Hub", rows[1].Hub)
	assert.Equal(t, 3, rows[1].TotalOrders)
	assert.Equal(t, 1, rows[1].CancelledOrders)
	assert.InDelta(t, 25.0, rows[1].CancelledPercent, 0.001)

	seen := map[[2]string]bool{}
	for _, r := range rows {
		key := [2]string{r.City, r.Hub}
		assert.False(t, seen[key], "duplicate (city, hub) group %v", key)
		seen[key] = true
	}
}

func TestOrdersByHub_InclusiveRangeEndsAndZeroPadding(t *testing.T) {
	db := newTestDB(t)
	city := fake.Address().City()
	seedHub(t, db, 1, city, "Hub A")
	seedStore(t, db, 1, 1)

	// Single-digit month/day must zero-pad to compare correctly.
	seedOrder(t, db, orderFixture{id: 1, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 3, day: 5})
	seedOrder(t, db, orderFixture{id: 2, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 3, day: 9})
	seedOrder(t, db, orderFixture{id: 3, storeID: 1, status: "FINISHED", amount: 10, year: 2021, month: 3, day: 10})

	svc := NewService(db)

	rows, err := svc.OrdersByHub(context.Background(), mustRange(t, "2021-03-05", "2021-03-09"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TotalOrders, "rows dated exactly on either bound are included")

	rows, err = svc.OrdersByHub(context.Background(), mustRange(t, "2021-04-01", "2021-04-30"))
	require.NoError(t, err)
	assert.Empty(t, rows, "hubs with no orders in range do not appear")
}

func TestRevenueByHub_FinishedOnly(t *testing.T) {
	db := newTestDB(t)
	seedHub(t, db, 1, "Sao Paulo", "East Hub")
	seedStore(t, db, 1, 1)

	seedOrder(t, db, orderFixture{id: 1, storeID: 1, status: "FINISHED", amount: 100.50, year: 2021, month: 1, day: 10})
	seedOrder(t, db, orderFixture{id: 2, storeID: 1, status: "FINISHED", amount: 49.50, year: 2021, month: 1, day: 11})
	seedOrder(t, db, orderFixture{id: 3, storeID: 1, status: "CANCELED", amount: 500, year: 2021, month: 1, day: 12})

	svc := NewService(db)
	rows, err := svc.RevenueByHub(context.Background(), mustRange(t, "2021-01-01", "2021-01-31"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 2, rows[0].TotalOrders, "canceled orders carry no revenue")
	assert.InDelta(t, 150.0, rows[0].TotalRevenue, 0.001)
	assert.InDelta(t, 75.0, rows[0].AvgPaymentAmount, 0.001)
}

func TestRevenueKPI(t *testing.T) {
	db := newTestDB(t)
	seedHub(t, db, 1, "Rio de Janeiro", "West Hub")
	seedStore(t, db, 1, 1)

	seedOrder(t, db, orderFixture{id: 1, storeID: 1, status: "FINISHED", amount: 80, year: 2021, month: 4, day: 1})
	seedOrder(t, db, orderFixture{id: 2, storeID: 1, status: "FINISHED", amount: 20, year: 2021, month: 4, day: 30})

	svc := NewService(db)
	kpi, err := svc.RevenueKPI(context.Background(), mustRange(t, "2021-04-01", "2021-04-30"))
	require.NoError(t, err)

	assert.Equal(t, 2, kpi.TotalOrders)
	assert.InDelta(t, 100.0, kpi.TotalRevenue, 0.001)
	assert.InDelta(t, 50.0, kpi.AvgOrderValue, 0.001)
}

func TestRevenueKPI_EmptyRangeYieldsZeros(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	kpi, err := svc.RevenueKPI(context.Background(), mustRange(t, "2021-01-01", "2021-01-31"))
	require.NoError(t, err)

	assert.Zero(t, kpi.TotalOrders)
	assert.Zero(t, kpi.TotalRevenue)
	assert.Zero(t, kpi.AvgOrderValue)
}
