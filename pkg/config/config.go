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
	Shopify      ShopifyConfig
	Firestore    FirestoreConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Session      SessionConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
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
	Env          string `envconfig:"AVELINE_APP_ENV" required:"true"`
	Port         string `envconfig:"AVELINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AVELINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AVELINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ShopifyConfig struct {
	StoreDomain     string `envconfig:"AVELINE_SHOPIFY_STORE_DOMAIN" required:"true"`
	StorefrontToken string `envconfig:"AVELINE_SHOPIFY_STOREFRONT_TOKEN" required:"true"`
	AdminToken      string `envconfig:"AVELINE_SHOPIFY_ADMIN_TOKEN"`
	APIVersion      string `envconfig:"AVELINE_SHOPIFY_API_VERSION" default:"2024-07"`
}

// StorefrontEndpoint returns the public GraphQL endpoint for the store.
func (s ShopifyConfig) StorefrontEndpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

// AdminEndpoint returns the privileged GraphQL endpoint. The admin token must
// stay server-side; this endpoint is only reached through proxy routes.
func (s ShopifyConfig) AdminEndpoint() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

type FirestoreConfig struct {
	ProjectID string `envconfig:"AVELINE_FIRESTORE_PROJECT_ID" required:"true"`
}

type DBConfig struct {
	DSN    string `envconfig:"AVELINE_DB_DSN"`
	Driver string `envconfig:"AVELINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AVELINE_DB_HOST"`
	LegacyPort     int    `envconfig:"AVELINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AVELINE_DB_USER"`
	LegacyPassword string `envconfig:"AVELINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AVELINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AVELINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AVELINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AVELINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AVELINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AVELINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AVELINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AVELINE_REDIS_ADDR"`
	Password     string        `envconfig:"AVELINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AVELINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AVELINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AVELINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AVELINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AVELINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AVELINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AVELINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AVELINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AVELINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type SessionConfig struct {
	LocalTTL      time.Duration `envconfig:"AVELINE_SESSION_LOCAL_TTL" default:"720h"`
	SweepInterval time.Duration `envconfig:"AVELINE_SESSION_SWEEP_INTERVAL" default:"10m"`
	MaxIdle       time.Duration `envconfig:"AVELINE_SESSION_MAX_IDLE" default:"1h"`
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"AVELINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AVELINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"AVELINE_GCS_BUCKET_NAME" required:"true"`
	PublicBase string `envconfig:"AVELINE_GCS_PUBLIC_BASE" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"AVELINE_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AVELINE_AUTO_MIGRATE" default:"false"`
}

// legacyMalformedScheme is the scheme emitted by one deployment's secret
// template. The rewrite keeps that environment bootable.
const legacyMalformedScheme = "postgress://"

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		if strings.HasPrefix(db.DSN, legacyMalformedScheme) {
			db.DSN = "postgres://" + strings.TrimPrefix(db.DSN, legacyMalformedScheme)
		}
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
