package config

// EnvPrefix namespaces every recognized environment variable.
const EnvPrefix = "AVELINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "AVELINE_APP_ENV"
	EnvPort     = "AVELINE_APP_PORT"
	EnvLogLevel = "AVELINE_LOG_LEVEL"

	EnvShopifyStoreDomain     = "AVELINE_SHOPIFY_STORE_DOMAIN"
	EnvShopifyStorefrontToken = "AVELINE_SHOPIFY_STOREFRONT_TOKEN"
	EnvShopifyAdminToken      = "AVELINE_SHOPIFY_ADMIN_TOKEN"
	EnvShopifyAPIVersion      = "AVELINE_SHOPIFY_API_VERSION"

	EnvFirestoreProjectID = "AVELINE_FIRESTORE_PROJECT_ID"

	EnvDBDSN  = "AVELINE_DB_DSN"
	EnvDBHost = "AVELINE_DB_HOST"
	EnvDBUser = "AVELINE_DB_USER"
	EnvDBName = "AVELINE_DB_NAME"

	EnvRedisURL = "AVELINE_REDIS_URL"

	EnvJWTSecret  = "AVELINE_JWT_SECRET"
	EnvJWTIssuer  = "AVELINE_JWT_ISSUER"
	EnvJWTExpMins = "AVELINE_JWT_EXPIRATION_MINUTES"

	EnvGCSBucket = "AVELINE_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
