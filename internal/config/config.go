package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port         int     `mapstructure:"PORT"`
	Env          string  `mapstructure:"APP_ENV"` // development | production
	LogLevel     string  `mapstructure:"LOG_LEVEL"`
	RateLimitRPS float64 `mapstructure:"RATE_LIMIT_RPS"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// MinIO
	MinioEndpoint   string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey  string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey  string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL     bool   `mapstructure:"MINIO_USE_SSL"`
	DocumentsBucket string `mapstructure:"DOCUMENTS_BUCKET"`

	// Auth. JWKSURL wins over JWTSecret when both are set.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWKSURL   string `mapstructure:"JWKS_URL"`

	// Jobs
	LowStockInterval     time.Duration `mapstructure:"LOW_STOCK_INTERVAL"`
	RecipeRecalcInterval time.Duration `mapstructure:"RECIPE_RECALC_INTERVAL"`
}

var keys = map[string]any{
	"PORT":                   8080,
	"APP_ENV":                "development",
	"LOG_LEVEL":              "info",
	"RATE_LIMIT_RPS":         20.0,
	"DATABASE_URL":           "",
	"DB_MAX_CONNS":           10,
	"REDIS_ADDR":             "localhost:6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"MINIO_ENDPOINT":         "localhost:9000",
	"MINIO_ACCESS_KEY":       "minioadmin",
	"MINIO_SECRET_KEY":       "minioadmin",
	"MINIO_USE_SSL":          false,
	"DOCUMENTS_BUCKET":       "empleado-documentos",
	"JWT_SECRET":             "",
	"JWKS_URL":               "",
	"LOW_STOCK_INTERVAL":     "1h",
	"RECIPE_RECALC_INTERVAL": "15m",
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present and never overrides real variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for k, def := range keys {
		v.SetDefault(k, def)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" && c.JWKSURL == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWKS_URL is required"))
	}
	if c.LowStockInterval <= 0 || c.RecipeRecalcInterval <= 0 {
		errs = append(errs, errors.New("job intervals must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
