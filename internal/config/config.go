package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type ModelConfig struct {
	Path string
}

type TrainingConfig struct {
	DataDir string
	RawDir  string
	Samples int
	Seed    uint64
}

type MarketConfig struct {
	AveragePrice float64
	HistoryDays  int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Model       ModelConfig
	Training    TrainingConfig
	Market      MarketConfig
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Model: ModelConfig{
			Path: v.GetString("MODEL_PATH"),
		},
		Training: TrainingConfig{
			DataDir: v.GetString("TRAINING_DATA_DIR"),
			RawDir:  v.GetString("TRAINING_RAW_DIR"),
			Samples: v.GetInt("TRAINING_SAMPLES"),
			Seed:    v.GetUint64("TRAINING_SEED"),
		},
		Market: MarketConfig{
			AveragePrice: v.GetFloat64("MARKET_AVERAGE_PRICE"),
			HistoryDays:  v.GetInt("MARKET_HISTORY_DAYS"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 5000
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.ConnMaxLifetime == "" {
		cfg.DB.ConnMaxLifetime = "30m"
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "models/carbon_value_model.json"
	}
	if cfg.Training.DataDir == "" {
		cfg.Training.DataDir = "models/training_data"
	}
	if cfg.Training.RawDir == "" {
		cfg.Training.RawDir = cfg.Training.DataDir + "/raw"
	}
	if !v.IsSet("TRAINING_SAMPLES") {
		cfg.Training.Samples = 500
	}
	if !v.IsSet("TRAINING_SEED") {
		cfg.Training.Seed = 42
	}
	if !v.IsSet("MARKET_AVERAGE_PRICE") {
		cfg.Market.AveragePrice = 16.75
	}
	if !v.IsSet("MARKET_HISTORY_DAYS") {
		cfg.Market.HistoryDays = 30
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be in 1..65535, got %d", cfg.HTTP.Port)
	}
	if cfg.Training.Samples <= 0 {
		return fmt.Errorf("TRAINING_SAMPLES must be positive, got %d", cfg.Training.Samples)
	}
	if cfg.Market.AveragePrice <= 0 {
		return fmt.Errorf("MARKET_AVERAGE_PRICE must be positive, got %v", cfg.Market.AveragePrice)
	}
	if cfg.Market.HistoryDays < 1 || cfg.Market.HistoryDays > 365 {
		return fmt.Errorf("MARKET_HISTORY_DAYS must be in 1..365, got %d", cfg.Market.HistoryDays)
	}
	if _, err := time.ParseDuration(cfg.DB.ConnMaxLifetime); err != nil {
		return fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
