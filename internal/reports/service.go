// Package reports runs the dashboard's aggregate queries and the
// per-driver delivery derivation against the provisioned dataset.
package reports

import (
	"context"
	"database/sql"

	"github.com/chrisdamba/deliverydash/internal/models"
)

// Service runs every report against a single shared read connection.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Ping verifies the dataset handle is still usable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// orderDateExpr rebuilds a comparable calendar date from the split
// year/month/day integer columns. The stored schema has no native date
// type, so month and day are zero-padded before comparison.
const orderDateExpr = `DATE(
    o.order_created_year || '-' ||
    PRINTF('%02d', o.order_created_month) || '-' ||
    PRINTF('%02d', o.order_created_day)
)`

// OrdersByHub returns finished/cancelled counts and the cancellation rate
// per (city, hub) for orders created inside the range. Groups with no
// orders in range do not appear; the NULLIF guard keeps an empty group
// from dividing by zero.
func (s *Service) OrdersByHub(ctx context.Context, r models.DateRange) ([]models.OrdersByHubRow, error) {
	query := `
        SELECT
            h.hub_city AS city,
            h.hub_name AS hub,
            COUNT(CASE WHEN o.order_status = 'FINISHED' THEN 1 END) AS total_orders,
            COUNT(CASE WHEN o.order_status = 'CANCELED' THEN 1 END) AS cancelled_orders,
            COALESCE(ROUND(
                100.0 * COUNT(CASE WHEN o.order_status = 'CANCELED' THEN 1 END)
                / NULLIF(COUNT(*), 0), 2
            ), 0) AS cancelled_percent
        FROM orders o
        JOIN stores s ON o.store_id = s.store_id
        JOIN hubs h ON s.hub_id = h.hub_id
        WHERE ` + orderDateExpr + ` BETWEEN ? AND ?
        GROUP BY h.hub_city, h.hub_name
        ORDER BY h.hub_city
    `

	rows, err := s.db.QueryContext(ctx, query, r.StartString(), r.EndString())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.OrdersByHubRow
	for rows.Next() {
		var row models.OrdersByHubRow
		if err := rows.Scan(
			&row.City,
			&row.Hub,
			&row.TotalOrders,
			&row.CancelledOrders,
			&row.CancelledPercent,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// OrdersKPI returns range-wide order totals. A range with no qualifying
// rows yields all-zero KPIs rather than NULLs.
func (s *Service) OrdersKPI(ctx context.Context, r models.DateRange) (models.OrdersKPI, error) {
	query := `
        SELECT
            COUNT(CASE WHEN o.order_status = 'FINISHED' THEN 1 END) AS total_orders,
            COUNT(CASE WHEN o.order_status = 'CANCELED' THEN 1 END) AS cancelled_orders,
            ROUND(
                100.0 * COUNT(CASE WHEN o.order_status = 'CANCELED' THEN 1 END)
                / NULLIF(COUNT(o.order_id), 0), 2
            ) AS cancelled_percent
        FROM orders o
        WHERE ` + orderDateExpr + ` BETWEEN ? AND ?
    `

	var kpi models.OrdersKPI
	var percent sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, r.StartString(), r.EndString()).Scan(
		&kpi.TotalOrders,
		&kpi.CancelledOrders,
		&percent,
	)
	if err != nil {
		return models.OrdersKPI{}, err
	}
	if percent.Valid {
		kpi.CancelledPercent = percent.Float64
	}
	return kpi, nil
}

// RevenueByHub returns order count, summed amount and average amount per
// (city, hub), restricted to finished orders created inside the range.
func (s *Service) RevenueByHub(ctx context.Context, r models.DateRange) ([]models.RevenueByHubRow, error) {
	query := `
        SELECT
            h.hub_city AS city,
            h.hub_name AS hub,
            COUNT(o.order_id) AS total_orders,
            SUM(o.order_amount) AS total_revenue,
            ROUND(AVG(o.order_amount), 2) AS avg_payment_amount
        FROM orders o
        JOIN stores s ON o.store_id = s.store_id
        JOIN hubs h ON s.hub_id = h.hub_id
        WHERE o.order_status = 'FINISHED'
        AND ` + orderDateExpr + ` BETWEEN ? AND ?
        GROUP BY h.hub_city, h.hub_name
        ORDER BY h.hub_city
    `

	rows, err := s.db.QueryContext(ctx, query, r.StartString(), r.EndString())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RevenueByHubRow
	for rows.Next() {
		var row models.RevenueByHubRow
		var revenue, avg sql.NullFloat64
		if err := rows.Scan(
			&row.City,
			&row.Hub,
			&row.TotalOrders,
			&revenue,
			&avg,
		); err != nil {
			return nil, err
		}
		row.TotalRevenue = revenue.Float64
		row.AvgPaymentAmount = avg.Float64
		result = append(result, row)
	}
	return result, rows.Err()
}

// RevenueKPI returns range-wide revenue totals over finished orders.
func (s *Service) RevenueKPI(ctx context.Context, r models.DateRange) (models.RevenueKPI, error) {
	query := `
        SELECT
            COUNT(DISTINCT o.order_id) AS total_orders,
            SUM(o.order_amount) AS total_revenue,
            ROUND(AVG(o.order_amount), 2) AS avg_order_value
        FROM orders o
        WHERE o.order_status = 'FINISHED'
        AND ` + orderDateExpr + ` BETWEEN ? AND ?
    `

	var kpi models.RevenueKPI
	var revenue, avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, r.StartString(), r.EndString()).Scan(
		&kpi.TotalOrders,
		&revenue,
		&avg,
	)
	if err != nil {
		return models.RevenueKPI{}, err
	}
	kpi.TotalRevenue = revenue.Float64
	kpi.AvgOrderValue = avg.Float64
	return kpi, nil
}
