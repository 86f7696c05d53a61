package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/deliverydash/internal/models"
)

// Parquet mirrors of the report rows. Kept separate from the models so the
// snapshot schema can evolve without touching the query layer.

type ordersParquetRow struct {
	City             string  `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hub              string  `parquet:"name=hub, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalOrders      int64   `parquet:"name=total_orders, type=INT64"`
	CancelledOrders  int64   `parquet:"name=cancelled_orders, type=INT64"`
	CancelledPercent float64 `parquet:"name=cancelled_percent, type=DOUBLE"`
}

type revenueParquetRow struct {
	City             string  `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hub              string  `parquet:"name=hub, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalOrders      int64   `parquet:"name=total_orders, type=INT64"`
	TotalRevenue     float64 `parquet:"name=total_revenue, type=DOUBLE"`
	AvgPaymentAmount float64 `parquet:"name=avg_payment_amount, type=DOUBLE"`
}

type driverParquetRow struct {
	DriverID            int64   `parquet:"name=driver_id, type=INT64"`
	TotalDeliveries     int64   `parquet:"name=total_deliveries, type=INT64"`
	AvgDeliveryDistance float64 `parquet:"name=avg_delivery_distance, type=DOUBLE"`
	FailureCount        int64   `parquet:"name=delivery_failure_count, type=INT64"`
	FailRatePercent     float64 `parquet:"name=delivery_fail_rate_percent, type=DOUBLE"`
	AvgDeliveryTimeMins float64 `parquet:"name=avg_delivery_time_mins, type=DOUBLE"`
	SuspectDurations    int64   `parquet:"name=suspect_durations, type=INT64"`
}

func writeParquet[T any](path string, schema *T, rows []T) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating parquet file %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, schema, 2)
	if err != nil {
		fw.Close()
		return fmt.Errorf("creating parquet writer for %s: %w", path, err)
	}

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("writing parquet row to %s: %w", path, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalizing parquet file %s: %w", path, err)
	}
	return fw.Close()
}

func writeOrdersParquet(path string, rows []models.OrdersByHubRow) error {
	out := make([]ordersParquetRow, len(rows))
	for i, r := range rows {
		out[i] = ordersParquetRow{
			City:             r.City,
			Hub:              r.Hub,
			TotalOrders:      int64(r.TotalOrders),
			CancelledOrders:  int64(r.CancelledOrders),
			CancelledPercent: r.CancelledPercent,
		}
	}
	return writeParquet(path, new(ordersParquetRow), out)
}

func writeRevenueParquet(path string, rows []models.RevenueByHubRow) error {
	out := make([]revenueParquetRow, len(rows))
	for i, r := range rows {
		out[i] = revenueParquetRow{
			City:             r.City,
			Hub:              r.Hub,
			TotalOrders:      int64(r.TotalOrders),
			TotalRevenue:     r.TotalRevenue,
			AvgPaymentAmount: r.AvgPaymentAmount,
		}
	}
	return writeParquet(path, new(revenueParquetRow), out)
}

func writeDriverParquet(path string, rows []models.DriverMetricsRow) error {
	out := make([]driverParquetRow, len(rows))
	for i, r := range rows {
		out[i] = driverParquetRow{
			DriverID:            r.DriverID,
			TotalDeliveries:     int64(r.TotalDeliveries),
			AvgDeliveryDistance: r.AvgDeliveryDistance,
			FailureCount:        int64(r.FailureCount),
			FailRatePercent:     r.FailRatePercent,
			AvgDeliveryTimeMins: r.AvgDeliveryTimeMins,
			SuspectDurations:    int64(r.SuspectDurations),
		}
	}
	return writeParquet(path, new(driverParquetRow), out)
}
