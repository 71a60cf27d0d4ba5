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
	DB           DBConfig
	Redis        RedisConfig
	Provider     ProviderConfig
	Escrow       EscrowConfig
	Telephony    TelephonyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
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
	Env          string `envconfig:"TRADEFLOW_APP_ENV" default:"dev"`
	Port         string `envconfig:"TRADEFLOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRADEFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the optional settlement mirror. An empty DSN (and no
// legacy parts) disables persistence instead of failing startup.
type DBConfig struct {
	DSN    string `envconfig:"TRADEFLOW_DB_DSN"`
	Driver string `envconfig:"TRADEFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADEFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADEFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADEFLOW_DB_USER"`
	LegacyPassword string `envconfig:"TRADEFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADEFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADEFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Enabled reports whether a mirror datasource is configured at all.
func (db DBConfig) Enabled() bool {
	return db.DSN != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEFLOW_REDIS_URL"`
	Address      string        `envconfig:"TRADEFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"TRADEFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether replay protection storage is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ProviderConfig holds policies common to every external capability.
type ProviderConfig struct {
	Timeout time.Duration `envconfig:"TRADEFLOW_PROVIDER_TIMEOUT" default:"10s"`
}

// EscrowConfig configures the payment provider used for escrow holds.
// Absent credentials select deterministic fallback references.
type EscrowConfig struct {
	APIKey string `envconfig:"TRADEFLOW_ESCROW_API_KEY"`
	Env    string `envconfig:"TRADEFLOW_ESCROW_ENV" default:"test"`
}

// Environment returns the normalized escrow provider environment.
func (e EscrowConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(e.Env))
	if env == "" {
		return "test"
	}
	return env
}

// Configured reports whether a real escrow provider can be reached.
func (e EscrowConfig) Configured() bool {
	return strings.TrimSpace(e.APIKey) != ""
}

// TelephonyConfig configures the voice/SMS provider.
type TelephonyConfig struct {
	BaseURL    string `envconfig:"TRADEFLOW_TELEPHONY_BASE_URL"`
	AccountSID string `envconfig:"TRADEFLOW_TELEPHONY_ACCOUNT_SID"`
	AuthToken  string `envconfig:"TRADEFLOW_TELEPHONY_AUTH_TOKEN"`
	CallerID   string `envconfig:"TRADEFLOW_TELEPHONY_CALLER_ID"`
}

// Configured reports whether a real telephony provider can be reached.
func (t TelephonyConfig) Configured() bool {
	return strings.TrimSpace(t.BaseURL) != "" && strings.TrimSpace(t.AccountSID) != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TRADEFLOW_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TRADEFLOW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TRADEFLOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"TRADEFLOW_PUBSUB_NOTIFICATION_TOPIC" default:"tf-notification-events"`
}

type FeatureFlagsConfig struct {
	UseSQLite    bool `envconfig:"TRADEFLOW_USE_SQLITE" default:"false"`
	AutoMigrate  bool `envconfig:"TRADEFLOW_AUTO_MIGRATE" default:"false"`
	SeedDemoData bool `envconfig:"TRADEFLOW_SEED_DEMO_DATA" default:"false"`
	StrictStages bool `envconfig:"TRADEFLOW_STRICT_STAGE_ORDER" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	// Persistence is optional; without any legacy parts the mirror simply
	// stays off.
	if db.LegacyHost == "" && db.LegacyUser == "" && db.LegacyName == "" {
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
