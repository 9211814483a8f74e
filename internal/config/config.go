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
	Markets  MarketsConfig  `yaml:"markets" mapstructure:"markets"`
	Rates    RatesConfig    `yaml:"rates" mapstructure:"rates"`
	Strategy StrategyConfig `yaml:"strategy" mapstructure:"strategy"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// MarketsConfig holds the per-market SQLite source paths.
type MarketsConfig struct {
	TR MarketSource `yaml:"tr" mapstructure:"tr"`
	US MarketSource `yaml:"us" mapstructure:"us"`
	DE MarketSource `yaml:"de" mapstructure:"de"`
	UK MarketSource `yaml:"uk" mapstructure:"uk"`
}

// MarketSource configures one market's scrape database.
type MarketSource struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

// RatesConfig configures the exchange-rate client.
type RatesConfig struct {
	APIURL      string `yaml:"api_url" mapstructure:"api_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	// Fallback quotes use the API's convention: foreign units per 1 TRY.
	// The client inverts them into TRY-per-unit rates.
	FallbackUSD float64 `yaml:"fallback_usd" mapstructure:"fallback_usd"`
	FallbackEUR float64 `yaml:"fallback_eur" mapstructure:"fallback_eur"`
	FallbackGBP float64 `yaml:"fallback_gbp" mapstructure:"fallback_gbp"`
}

// StrategyConfig configures the pricing strategy defaults.
type StrategyConfig struct {
	Mode         string  `yaml:"mode" mapstructure:"mode"`
	ThresholdPct float64 `yaml:"threshold_pct" mapstructure:"threshold_pct"`
}

// ForecastConfig configures the price forecaster.
type ForecastConfig struct {
	HorizonDays int `yaml:"horizon_days" mapstructure:"horizon_days"`
	MinPoints   int `yaml:"min_points" mapstructure:"min_points"`
}

// StoreConfig configures the analysis-run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// WatchConfig configures the scheduled re-analysis loop.
type WatchConfig struct {
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
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
	v.SetEnvPrefix("PARITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("markets.tr.db_path", "trivago_tr_prices.db")
	v.SetDefault("markets.us.db_path", "trivago_us_prices.db")
	v.SetDefault("markets.de.db_path", "trivago_de_prices.db")
	v.SetDefault("markets.uk.db_path", "trivago_uk_prices.db")
	v.SetDefault("rates.api_url", "https://api.frankfurter.app/latest?from=TRY")
	v.SetDefault("rates.timeout_secs", 5)
	v.SetDefault("rates.ttl_hours", 6)
	v.SetDefault("rates.fallback_usd", 0.029)
	v.SetDefault("rates.fallback_eur", 0.027)
	v.SetDefault("rates.fallback_gbp", 0.023)
	v.SetDefault("strategy.mode", "MAX")
	v.SetDefault("strategy.threshold_pct", 10.0)
	v.SetDefault("forecast.horizon_days", 7)
	v.SetDefault("forecast.min_points", 7)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "parity_runs.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("watch.schedule", "@every 1h")
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
