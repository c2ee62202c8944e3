package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Assignments  AssignmentsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TALENTBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"TALENTBRIDGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TALENTBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TALENTBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TALENTBRIDGE_DB_DSN"`
	Driver string `envconfig:"TALENTBRIDGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TALENTBRIDGE_DB_HOST"`
	LegacyPort     int    `envconfig:"TALENTBRIDGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TALENTBRIDGE_DB_USER"`
	LegacyPassword string `envconfig:"TALENTBRIDGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TALENTBRIDGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TALENTBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TALENTBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TALENTBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TALENTBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TALENTBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a DSN from the legacy discrete fields when one is not set.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either TALENTBRIDGE_DB_DSN or host/user/name must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TALENTBRIDGE_REDIS_URL"`
	Address      string        `envconfig:"TALENTBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"TALENTBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TALENTBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TALENTBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TALENTBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TALENTBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TALENTBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TALENTBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether any redis endpoint was provided. Redis is an
// optional dependency: without it the assignment lock and idempotency cache
// are disabled.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"TALENTBRIDGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TALENTBRIDGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TALENTBRIDGE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type AssignmentsConfig struct {
	LockTTL        time.Duration `envconfig:"TALENTBRIDGE_ASSIGNMENT_LOCK_TTL" default:"30s"`
	IdempotencyTTL time.Duration `envconfig:"TALENTBRIDGE_ASSIGNMENT_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TALENTBRIDGE_AUTO_MIGRATE" default:"false"`
}
