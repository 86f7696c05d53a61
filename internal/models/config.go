package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CloudStorageConfig selects an optional object store for export snapshots.
// Only S3 is implemented; an empty bucket disables uploads entirely.
type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	DatabaseURL    string             `mapstructure:"database_url"`
	DBPath         string             `mapstructure:"db_path"`
	ListenAddr     string             `mapstructure:"listen_addr"`
	StartDate      time.Time          `mapstructure:"start_date"`
	EndDate        time.Time          `mapstructure:"end_date"`
	ExportDir      string             `mapstructure:"export_dir"`
	ParquetEnabled bool               `mapstructure:"parquet_enabled"`
	CloudStorage   CloudStorageConfig `mapstructure:"cloud_storage"`
}

// DefaultRange returns the configured report range. The defaults mirror the
// historical window the dataset covers.
func (cfg *Config) DefaultRange() DateRange {
	return DateRange{Start: cfg.StartDate, End: cfg.EndDate}
}

// LoadConfig initializes and reads the configuration using Viper.
// Resolution order: explicit flags (bound by cmd), environment variables
// (DATABASE_URL in particular), then the config file, then defaults.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("deliverydash")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	// AutomaticEnv alone does not surface unknown keys through Unmarshal,
	// so the dataset URL gets an explicit env binding.
	viper.BindEnv("database_url", "DATABASE_URL")

	viper.SetDefault("db_path", "e_commerce.db")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("start_date", "2021-01-01")
	viper.SetDefault("end_date", "2021-04-30")
	viper.SetDefault("export_dir", "exports")
	viper.SetDefault("cloud_storage.provider", "s3")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; only a malformed explicit file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc("2006-01-02"),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.EndDate.Before(config.StartDate) {
		return nil, fmt.Errorf("end_date %s precedes start_date %s",
			config.EndDate.Format("2006-01-02"), config.StartDate.Format("2006-01-02"))
	}

	return &config, nil
}
