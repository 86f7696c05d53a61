package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/deliverydash/internal/cloudwriter"
	"github.com/chrisdamba/deliverydash/internal/database"
	"github.com/chrisdamba/deliverydash/internal/export"
	"github.com/chrisdamba/deliverydash/internal/models"
	"github.com/chrisdamba/deliverydash/internal/provision"
	"github.com/chrisdamba/deliverydash/internal/reports"
	"github.com/chrisdamba/deliverydash/internal/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "deliverydash",
	Short: "Operational reporting dashboard for e-commerce delivery data",
	Long: `deliverydash serves order volume, cancellation, revenue and driver
performance reports over a provisioned e-commerce dataset. The dataset is a
read-only SQLite file downloaded on first run from DATABASE_URL.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Provision the dataset and serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.New(svc, cfg.DefaultRange())
		fmt.Fprintf(os.Stderr, "listening on %s\n", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, srv.Router())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write report snapshots for the configured date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		exporter := &export.Exporter{
			Service: svc,
			Dir:     cfg.ExportDir,
			Parquet: cfg.ParquetEnabled,
		}
		if cfg.CloudStorage.BucketName != "" {
			if cfg.CloudStorage.Provider != "s3" {
				return fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
			}
			factory, err := cloudwriter.NewS3WriterFactory(cmd.Context(), cfg.CloudStorage.Region)
			if err != nil {
				return fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			exporter.Cloud = factory
			exporter.CloudBucket = cfg.CloudStorage.BucketName
		}

		if err := exporter.Run(cmd.Context(), cfg.DefaultRange()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "snapshots written to %s\n", cfg.ExportDir)
		return nil
	},
}

// bootstrap runs the startup sequence shared by every command: load config,
// make sure the dataset file exists, open the read connection, build the
// report service. Provisioning and connection failures are fatal; there is
// no degraded mode without a dataset.
func bootstrap(ctx context.Context) (*models.Config, *reports.Service, func(), error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	prov := &provision.Provisioner{DBPath: cfg.DBPath, URL: cfg.DatabaseURL}
	if err := prov.Ensure(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("database not available, cannot proceed: %w", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	return cfg, reports.NewService(db), func() { db.Close() }, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./deliverydash.yaml)")

	rootCmd.PersistentFlags().String("db-path", "e_commerce.db", "Local dataset file path")
	rootCmd.PersistentFlags().String("database-url", "", "Remote dataset URL (falls back to DATABASE_URL)")
	rootCmd.PersistentFlags().String("start-date", "2021-01-01", "Default report range start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end-date", "2021-04-30", "Default report range end (YYYY-MM-DD)")

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")

	exportCmd.Flags().String("export-dir", "exports", "Snapshot output directory")
	exportCmd.Flags().Bool("parquet", false, "Also write Parquet snapshots")
	exportCmd.Flags().String("cloud-bucket", "", "S3 bucket for snapshot uploads")
	exportCmd.Flags().String("cloud-region", "", "S3 region for snapshot uploads")

	viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db-path"))
	viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("start_date", rootCmd.PersistentFlags().Lookup("start-date"))
	viper.BindPFlag("end_date", rootCmd.PersistentFlags().Lookup("end-date"))
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("export_dir", exportCmd.Flags().Lookup("export-dir"))
	viper.BindPFlag("parquet_enabled", exportCmd.Flags().Lookup("parquet"))
	viper.BindPFlag("cloud_storage.bucket_name", exportCmd.Flags().Lookup("cloud-bucket"))
	viper.BindPFlag("cloud_storage.region", exportCmd.Flags().Lookup("cloud-region"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
