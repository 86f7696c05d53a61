// Package export writes report snapshots to local CSV/Parquet files and,
// when configured, mirrors them to object storage.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrisdamba/deliverydash/internal/cloudwriter"
	"github.com/chrisdamba/deliverydash/internal/models"
	"github.com/chrisdamba/deliverydash/internal/reports"
)

// Snapshot file names match the download names the dashboard has always
// offered, so scheduled exports and manual downloads line up.
const (
	OrdersFile  = "order_metrics.csv"
	RevenueFile = "revenue_metrics.csv"
	DriverFile  = "driver_metrics.csv"
)

// Exporter runs every report for one range and persists the results.
// Unlike the dashboard, where sections fail independently, an export is
// all-or-nothing: a partial snapshot on disk is worse than none.
type Exporter struct {
	Service *reports.Service
	Dir     string
	Parquet bool

	// Cloud is nil unless snapshot mirroring is configured.
	Cloud       cloudwriter.CloudWriterFactory
	CloudBucket string
}

// Run executes the three tabular reports and writes one CSV (plus an
// optional Parquet twin) per section into the export directory.
func (e *Exporter) Run(ctx context.Context, r models.DateRange) error {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	orders, err := e.Service.OrdersByHub(ctx, r)
	if err != nil {
		return fmt.Errorf("orders report: %w", err)
	}
	revenue, err := e.Service.RevenueByHub(ctx, r)
	if err != nil {
		return fmt.Errorf("revenue report: %w", err)
	}
	drivers, err := e.Service.DriverPerformance(ctx, r)
	if err != nil {
		return fmt.Errorf("driver report: %w", err)
	}

	if err := e.writeCSV(ctx, OrdersFile, func(f *os.File) error {
		return WriteOrdersCSV(f, orders)
	}); err != nil {
		return err
	}
	if err := e.writeCSV(ctx, RevenueFile, func(f *os.File) error {
		return WriteRevenueCSV(f, revenue)
	}); err != nil {
		return err
	}
	if err := e.writeCSV(ctx, DriverFile, func(f *os.File) error {
		return WriteDriverCSV(f, drivers)
	}); err != nil {
		return err
	}

	if e.Parquet {
		if err := writeOrdersParquet(e.path("order_metrics.parquet"), orders); err != nil {
			return err
		}
		if err := writeRevenueParquet(e.path("revenue_metrics.parquet"), revenue); err != nil {
			return err
		}
		if err := writeDriverParquet(e.path("driver_metrics.parquet"), drivers); err != nil {
			return err
		}
		if err := e.mirror(ctx, "order_metrics.parquet", "revenue_metrics.parquet", "driver_metrics.parquet"); err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) path(name string) string {
	return filepath.Join(e.Dir, name)
}

func (e *Exporter) writeCSV(ctx context.Context, name string, write func(*os.File) error) error {
	f, err := os.Create(e.path(name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return e.mirror(ctx, name)
}

// mirror uploads already-written local files to the configured bucket.
func (e *Exporter) mirror(ctx context.Context, names ...string) error {
	if e.Cloud == nil {
		return nil
	}
	for _, name := range names {
		data, err := os.ReadFile(e.path(name))
		if err != nil {
			return fmt.Errorf("reading %s for upload: %w", name, err)
		}
		w, err := e.Cloud.NewWriter(e.CloudBucket, name)
		if err != nil {
			return fmt.Errorf("creating cloud writer for %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("buffering %s for upload: %w", name, err)
		}
		if err := w.Close(ctx); err != nil {
			return err
		}
	}
	return nil
}
