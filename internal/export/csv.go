package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/chrisdamba/deliverydash/internal/models"
)

// Column headers are part of the download contract; reordering them breaks
// downstream spreadsheets that consume the exports by position.
var (
	ordersHeaders  = []string{"city", "hub", "total_orders", "cancelled_orders", "cancelled_percent"}
	revenueHeaders = []string{"city", "hub", "total_orders", "total_revenue", "avg_payment_amount"}
	driverHeaders  = []string{
		"driver_id", "total_deliveries", "avg_delivery_distance",
		"delivery_failure_count", "delivery_fail_rate_percent",
		"avg_delivery_time_mins", "suspect_durations",
	}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// WriteOrdersCSV streams the orders-by-hub table as UTF-8 CSV with a
// header row.
func WriteOrdersCSV(w io.Writer, rows []models.OrdersByHubRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ordersHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.City,
			r.Hub,
			formatInt(r.TotalOrders),
			formatInt(r.CancelledOrders),
			formatFloat(r.CancelledPercent),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRevenueCSV streams the revenue-by-hub table as CSV.
func WriteRevenueCSV(w io.Writer, rows []models.RevenueByHubRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(revenueHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.City,
			r.Hub,
			formatInt(r.TotalOrders),
			formatFloat(r.TotalRevenue),
			formatFloat(r.AvgPaymentAmount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDriverCSV streams the driver metrics table as CSV.
func WriteDriverCSV(w io.Writer, rows []models.DriverMetricsRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(driverHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.DriverID, 10),
			formatInt(r.TotalDeliveries),
			formatFloat(r.AvgDeliveryDistance),
			formatInt(r.FailureCount),
			formatFloat(r.FailRatePercent),
			formatFloat(r.AvgDeliveryTimeMins),
			formatInt(r.SuspectDurations),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
