package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every FreelanceHub environment variable.
const EnvPrefix = "FREELANCEHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Trending     TrendingConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FREELANCEHUB_APP_ENV" default:"dev"`
	Port         string `envconfig:"FREELANCEHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FREELANCEHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FREELANCEHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FREELANCEHUB_DB_DSN" required:"true"`
	Driver string `envconfig:"FREELANCEHUB_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"FREELANCEHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FREELANCEHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FREELANCEHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FREELANCEHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FREELANCEHUB_REDIS_URL"`
	Address      string        `envconfig:"FREELANCEHUB_REDIS_ADDR"`
	Password     string        `envconfig:"FREELANCEHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FREELANCEHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FREELANCEHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FREELANCEHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FREELANCEHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FREELANCEHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FREELANCEHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FREELANCEHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FREELANCEHUB_JWT_ISSUER" default:"freelancehub"`
	ExpirationMinutes int    `envconfig:"FREELANCEHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FREELANCEHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FREELANCEHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FREELANCEHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FREELANCEHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FREELANCEHUB_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	PaymentWindow    time.Duration `envconfig:"FREELANCEHUB_RATE_LIMIT_PAYMENT_WINDOW" default:"1m"`
	PaymentUserLimit int           `envconfig:"FREELANCEHUB_RATE_LIMIT_PAYMENT_USER_LIMIT" default:"10"`
	PaymentIPLimit   int           `envconfig:"FREELANCEHUB_RATE_LIMIT_PAYMENT_IP_LIMIT" default:"30"`
}

type TrendingConfig struct {
	WindowDays int `envconfig:"FREELANCEHUB_TRENDING_WINDOW_DAYS" default:"7"`
	TopN       int `envconfig:"FREELANCEHUB_TRENDING_TOP_N" default:"6"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"FREELANCEHUB_CRON_INTERVAL" default:"1h"`
	LockTTL         time.Duration `envconfig:"FREELANCEHUB_CRON_LOCK_TTL" default:"2h"`
	PendingOrderTTL time.Duration `envconfig:"FREELANCEHUB_CRON_PENDING_ORDER_TTL" default:"240h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FREELANCEHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FREELANCEHUB_AUTO_MIGRATE" default:"false"`
}
