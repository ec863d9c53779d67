package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Compare CompareConfig `yaml:"compare" mapstructure:"compare"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CompareConfig configures the comparison engine and dataset ingestion.
type CompareConfig struct {
	IDColumn          string   `yaml:"id_column" mapstructure:"id_column"`
	DescriptiveColumn string   `yaml:"descriptive_column" mapstructure:"descriptive_column"`
	Threshold         float64  `yaml:"threshold" mapstructure:"threshold"`
	SimilarityFields  []string `yaml:"similarity_fields" mapstructure:"similarity_fields"`
	SelectedFields    []string `yaml:"selected_fields" mapstructure:"selected_fields"`
	Lowercase         bool     `yaml:"lowercase" mapstructure:"lowercase"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Disable bool   `yaml:"disable" mapstructure:"disable"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("compare.id_column", "job_id")
	v.SetDefault("compare.descriptive_column", "job_name")
	v.SetDefault("compare.threshold", 0.8)
	v.SetDefault("compare.similarity_fields", []string{
		"loss_details.loss_location_address",
		"contact_details.contact_address",
		"insured_details.insured_address",
		"insured_details.insured_organization_name",
	})
	v.SetDefault("compare.lowercase", true)
	v.SetDefault("store.path", "compare.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
