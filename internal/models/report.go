package models

import (
	"fmt"
	"time"
)

// Order status values carried by the dataset. Any status other than these
// two still counts toward group totals in the cancellation-rate formula.
const (
	OrderStatusFinished = "FINISHED"
	OrderStatusCanceled = "CANCELED"
)

// DeliveryStatusDelivered is the only delivery status treated as a success;
// every other terminal status counts as a failure in driver metrics.
const DeliveryStatusDelivered = "DELIVERED"

// DateRange is an inclusive calendar-date range. Rows dated exactly on
// Start or End are in range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses two YYYY-MM-DD strings into a range.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return DateRange{Start: s, End: e}, nil
}

// StartString returns the range start formatted for SQL parameters.
func (r DateRange) StartString() string { return r.Start.Format("2006-01-02") }

// EndString returns the range end formatted for SQL parameters.
func (r DateRange) EndString() string { return r.End.Format("2006-01-02") }

// Contains reports whether the calendar date of t falls inside the range.
// Only the date part of t is considered.
func (r DateRange) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(r.Start) && !d.After(r.End)
}

// OrdersByHubRow is one (city, hub) group of the orders report.
type OrdersByHubRow struct {
	City             string  `json:"city"`
	Hub              string  `json:"hub"`
	TotalOrders      int     `json:"total_orders"`
	CancelledOrders  int     `json:"cancelled_orders"`
	CancelledPercent float64 `json:"cancelled_percent"`
}

// OrdersKPI summarises the whole filtered range.
type OrdersKPI struct {
	TotalOrders      int     `json:"total_orders"`
	CancelledOrders  int     `json:"cancelled_orders"`
	CancelledPercent float64 `json:"cancelled_percent"`
}

// RevenueByHubRow is one (city, hub) group of the revenue report,
// restricted to finished orders.
type RevenueByHubRow struct {
	City             string  `json:"city"`
	Hub              string  `json:"hub"`
	TotalOrders      int     `json:"total_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgPaymentAmount float64 `json:"avg_payment_amount"`
}

// RevenueKPI summarises revenue over the whole filtered range.
type RevenueKPI struct {
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// DriverMetricsRow carries per-driver delivery performance statistics.
// SuspectDurations counts rows whose delivered timestamp precedes the
// collected timestamp; those rows still participate in the averages.
type DriverMetricsRow struct {
	DriverID            int64   `json:"driver_id"`
	TotalDeliveries     int     `json:"total_deliveries"`
	AvgDeliveryDistance float64 `json:"avg_delivery_distance"`
	FailureCount        int     `json:"delivery_failure_count"`
	FailRatePercent     float64 `json:"delivery_fail_rate_percent"`
	AvgDeliveryTimeMins float64 `json:"avg_delivery_time_mins"`
	SuspectDurations    int     `json:"suspect_durations"`
}

// DeliveryRecord is a raw joined delivery row prior to timestamp parsing.
// Collected/Delivered hold the stored text timestamps; parsing and range
// filtering happen in the aggregation step.
type DeliveryRecord struct {
	OrderID        int64
	DriverID       int64
	DistanceMeters float64
	DeliveryStatus string
	Collected      string
	Delivered      string
}

// Section is a per-report-section result: either rows or the reason the
// section failed. One broken query must not take down the other sections,
// so query errors travel as values instead of propagating up.
type Section[T any] struct {
	Rows []T
	Err  error
}

// SectionOf wraps a query result into a Section.
func SectionOf[T any](rows []T, err error) Section[T] {
	return Section[T]{Rows: rows, Err: err}
}

// Empty reports whether the section succeeded but matched no rows.
func (s Section[T]) Empty() bool {
	return s.Err == nil && len(s.Rows) == 0
}
