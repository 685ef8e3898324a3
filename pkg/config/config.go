// Package config loads all service configuration from MOBELHAUS_*
// environment variables via envconfig, one struct per concern.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	Catalog      CatalogConfig
	Cron         CronConfig
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
	Env          string `envconfig:"MOBELHAUS_APP_ENV" required:"true"`
	Port         string `envconfig:"MOBELHAUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOBELHAUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOBELHAUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MOBELHAUS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MOBELHAUS_DB_DSN"`
	Driver string `envconfig:"MOBELHAUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOBELHAUS_DB_HOST"`
	LegacyPort     int    `envconfig:"MOBELHAUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOBELHAUS_DB_USER"`
	LegacyPassword string `envconfig:"MOBELHAUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOBELHAUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOBELHAUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOBELHAUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOBELHAUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOBELHAUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOBELHAUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOBELHAUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOBELHAUS_REDIS_ADDR"`
	Password     string        `envconfig:"MOBELHAUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOBELHAUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOBELHAUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOBELHAUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOBELHAUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOBELHAUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOBELHAUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MOBELHAUS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MOBELHAUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MOBELHAUS_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOBELHAUS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MOBELHAUS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MOBELHAUS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MOBELHAUS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"MOBELHAUS_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"MOBELHAUS_MAX_UPLOAD_MB" default:"10"`
}

// CatalogConfig tunes the catalog cache regions and the read retry policy.
type CatalogConfig struct {
	CatalogTTL      time.Duration `envconfig:"MOBELHAUS_CATALOG_TTL" default:"5m"`
	ProductTTL      time.Duration `envconfig:"MOBELHAUS_CATALOG_PRODUCT_TTL" default:"10m"`
	PageTTL         time.Duration `envconfig:"MOBELHAUS_CATALOG_PAGE_TTL" default:"5m"`
	RetryAttempts   int           `envconfig:"MOBELHAUS_CATALOG_RETRY_ATTEMPTS" default:"2"`
	RetryBaseDelay  time.Duration `envconfig:"MOBELHAUS_CATALOG_RETRY_BASE_DELAY" default:"300ms"`
	DefaultPageSize int           `envconfig:"MOBELHAUS_CATALOG_DEFAULT_PAGE_SIZE" default:"12"`
	MaxPageSize     int           `envconfig:"MOBELHAUS_CATALOG_MAX_PAGE_SIZE" default:"100"`
	FeaturedSize    int           `envconfig:"MOBELHAUS_CATALOG_FEATURED_SIZE" default:"6"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MOBELHAUS_CRON_INTERVAL" default:"4m"`
	LockTTL  time.Duration `envconfig:"MOBELHAUS_CRON_LOCK_TTL" default:"5m"`
}

// ensureDSN assembles a postgres URL from the legacy host/user/name
// variables when no DSN was given, so older deploy manifests keep
// working without changes.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}
	db.DSN = u.String()
	return nil
}
