package shared

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is assembled once at start-up and passed down explicitly.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	MySQLDSN          string        `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string        `envconfig:"REDIS_PASSWORD"`
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	JWTSecret      string        `envconfig:"JWT_SECRET"`
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"24h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	ContentBase       string  `envconfig:"CONTENT_BASE_URL" default:"https://content-api.cupid.travel/v3.0"`
	ContentKey        string  `envconfig:"CONTENT_API_KEY"`
	ContentRPS        int     `envconfig:"CONTENT_RPS" default:"5"`
	ImportWorkers     int     `envconfig:"IMPORT_WORKERS" default:"4"`
	ImportTenantID    int64   `envconfig:"IMPORT_TENANT_ID"`
	ImportPropertyIDs []int64 `envconfig:"IMPORT_PROPERTY_IDS"`
}

var ErrNoJWTSecret = errors.New("JWT_SECRET is required")

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed; using process environment")
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if c.JWTSecret == "" {
		return c, ErrNoJWTSecret
	}
	if len(c.JWTSecret) < 32 {
		log.Warn().Int("len", len(c.JWTSecret)).Msg("JWT_SECRET is shorter than 32 bytes")
	}
	return c, nil
}
