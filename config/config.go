package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Policy   PolicyConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // "sqlite" or "mysql"
	Path     string // sqlite database file
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

// PolicyConfig holds the stock-planning knobs. The thresholds are policy
// defaults, not business rules; the shop adjusts them between seasons.
type PolicyConfig struct {
	LowStockThreshold float64
	BufferTarget      float64
	TopItemsLimit     int
	SeedDemoData      bool
}

// LoadConfig reads .env when present, with OS environment variables as
// fallback and override.
func LoadConfig(logger *slog.Logger) *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn(".env file not found, using environment variables", "error", err)
	}

	viper.AutomaticEnv()
	viper.BindEnv("SERVER_PORT", "PORT")
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "diwali-orders.db")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 5.0)
	viper.SetDefault("BUFFER_TARGET", 10.0)
	viper.SetDefault("TOP_ITEMS_LIMIT", 5)
	viper.SetDefault("SEED_DEMO_DATA", false)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Path:     viper.GetString("DB_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Policy: PolicyConfig{
			LowStockThreshold: viper.GetFloat64("LOW_STOCK_THRESHOLD"),
			BufferTarget:      viper.GetFloat64("BUFFER_TARGET"),
			TopItemsLimit:     viper.GetInt("TOP_ITEMS_LIMIT"),
			SeedDemoData:      viper.GetBool("SEED_DEMO_DATA"),
		},
	}

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"env", cfg.Server.Env,
		"db_driver", cfg.Database.Driver,
		"low_stock_threshold", cfg.Policy.LowStockThreshold,
		"buffer_target", cfg.Policy.BufferTarget,
	)

	return cfg
}
