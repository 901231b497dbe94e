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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Insights     InsightsConfig
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
	Env          string `envconfig:"ADSCOPE_APP_ENV" required:"true"`
	Port         string `envconfig:"ADSCOPE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADSCOPE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADSCOPE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ADSCOPE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ADSCOPE_DB_DSN"`
	Driver string `envconfig:"ADSCOPE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADSCOPE_DB_HOST"`
	LegacyPort     int    `envconfig:"ADSCOPE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADSCOPE_DB_USER"`
	LegacyPassword string `envconfig:"ADSCOPE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADSCOPE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADSCOPE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADSCOPE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADSCOPE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADSCOPE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADSCOPE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADSCOPE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ADSCOPE_REDIS_ADDR"`
	Password     string        `envconfig:"ADSCOPE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADSCOPE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADSCOPE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADSCOPE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADSCOPE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADSCOPE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADSCOPE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADSCOPE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADSCOPE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ADSCOPE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ADSCOPE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ADSCOPE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SnapshotsTopic        string        `envconfig:"ADSCOPE_PUBSUB_SNAPSHOTS_TOPIC" default:"ads-metric-snapshots"`
	SnapshotsSubscription string        `envconfig:"ADSCOPE_PUBSUB_SNAPSHOTS_SUBSCRIPTION"`
	IdempotencyTTL        time.Duration `envconfig:"ADSCOPE_PUBSUB_IDEMPOTENCY_TTL" default:"720h"`
}

type BigQueryConfig struct {
	Dataset            string `envconfig:"ADSCOPE_BIGQUERY_DATASET" default:"adscope"`
	AdPerformanceTable string `envconfig:"ADSCOPE_BIGQUERY_AD_PERFORMANCE_TABLE" default:"ad_performance_daily"`
}

// InsightsConfig carries the engine tunables exposed per deployment.
type InsightsConfig struct {
	MQLLeadscoreMin   float64       `envconfig:"ADSCOPE_INSIGHTS_MQL_LEADSCORE_MIN" default:"0"`
	DefaultWindowDays int           `envconfig:"ADSCOPE_INSIGHTS_DEFAULT_WINDOW_DAYS" default:"5"`
	DefaultLimit      int           `envconfig:"ADSCOPE_INSIGHTS_DEFAULT_LIMIT" default:"10"`
	AveragesCacheTTL  time.Duration `envconfig:"ADSCOPE_INSIGHTS_AVERAGES_CACHE_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
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
