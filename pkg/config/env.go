package config

// EnvPrefix is handed to envconfig; every field declares its full variable name,
// so lookups fall back to the explicit tag.
const EnvPrefix = "MARKETPLACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MARKETPLACE_APP_ENV"
	EnvPort     = "MARKETPLACE_APP_PORT"
	EnvLogLevel = "MARKETPLACE_LOG_LEVEL"

	EnvDBDSN      = "MARKETPLACE_DB_DSN"
	EnvDBHost     = "MARKETPLACE_DB_HOST"
	EnvDBPort     = "MARKETPLACE_DB_PORT"
	EnvDBUser     = "MARKETPLACE_DB_USER"
	EnvDBPassword = "MARKETPLACE_DB_PASSWORD"
	EnvDBName     = "MARKETPLACE_DB_NAME"

	EnvRedisURL = "MARKETPLACE_REDIS_URL"

	EnvCheckoutLockTTL = "MARKETPLACE_CHECKOUT_LOCK_TTL"

	EnvGCPProjectID      = "MARKETPLACE_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "MARKETPLACE_PUBSUB_ORDERS_TOPIC"

	EnvSquareAccessToken = "MARKETPLACE_SQUARE_ACCESS_TOKEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
