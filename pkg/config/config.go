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
	Alerting     AlertingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	SMTP         SMTPConfig
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
	Env          string `envconfig:"MEDSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MEDSTOCK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MEDSTOCK_DB_DSN"`
	Driver string `envconfig:"MEDSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"MEDSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDSTOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEDSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"MEDSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEDSTOCK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEDSTOCK_AUTO_MIGRATE" default:"false"`
}

// AlertingConfig tunes the low-stock detection pipeline.
type AlertingConfig struct {
	CooldownWindow            time.Duration `envconfig:"MEDSTOCK_ALERT_COOLDOWN_WINDOW" default:"24h"`
	ScanInterval              time.Duration `envconfig:"MEDSTOCK_ALERT_SCAN_INTERVAL" default:"24h"`
	ScanBatchSize             int           `envconfig:"MEDSTOCK_ALERT_SCAN_BATCH_SIZE" default:"200"`
	RetentionDays             int           `envconfig:"MEDSTOCK_ALERT_RETENTION_DAYS" default:"90"`
	NotificationRetentionDays int           `envconfig:"MEDSTOCK_NOTIFICATION_RETENTION_DAYS" default:"30"`
	IdempotencyTTL            time.Duration `envconfig:"MEDSTOCK_ALERT_IDEMPOTENCY_TTL" default:"720h"`
	ItemStepTimeout           time.Duration `envconfig:"MEDSTOCK_ALERT_ITEM_STEP_TIMEOUT" default:"10s"`
	FallbackRecipient         string        `envconfig:"MEDSTOCK_ALERT_FALLBACK_RECIPIENT"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MEDSTOCK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MEDSTOCK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MEDSTOCK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AlertTopic        string `envconfig:"MEDSTOCK_PUBSUB_ALERT_TOPIC" default:"ms-alert-events"`
	AlertSubscription string `envconfig:"MEDSTOCK_PUBSUB_ALERT_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MEDSTOCK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MEDSTOCK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MEDSTOCK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SMTPConfig struct {
	Host        string `envconfig:"MEDSTOCK_SMTP_HOST"`
	Port        int    `envconfig:"MEDSTOCK_SMTP_PORT" default:"587"`
	Username    string `envconfig:"MEDSTOCK_SMTP_USERNAME"`
	Password    string `envconfig:"MEDSTOCK_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"MEDSTOCK_SMTP_FROM_EMAIL"`
}

// Enabled reports whether mail delivery is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
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
