package config

// EnvPrefix is passed to envconfig; explicit envconfig tags take priority so
// it only matters for fields without one.
const EnvPrefix = "SWIFTSHIP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load, tooling, and tests.
const (
	EnvAppEnv   = "SWIFTSHIP_APP_ENV"
	EnvPort     = "SWIFTSHIP_APP_PORT"
	EnvLogLevel = "SWIFTSHIP_LOG_LEVEL"

	EnvDBDSN    = "SWIFTSHIP_DB_DSN"
	EnvDBDriver = "SWIFTSHIP_DB_DRIVER"
	EnvDBHost   = "SWIFTSHIP_DB_HOST"
	EnvDBPort   = "SWIFTSHIP_DB_PORT"
	EnvDBUser   = "SWIFTSHIP_DB_USER"
	EnvDBName   = "SWIFTSHIP_DB_NAME"

	EnvRedisURL = "SWIFTSHIP_REDIS_URL"

	EnvJWTSecret              = "SWIFTSHIP_JWT_SECRET"
	EnvJWTIssuer              = "SWIFTSHIP_JWT_ISSUER"
	EnvJWTExpMins             = "SWIFTSHIP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SWIFTSHIP_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "SWIFTSHIP_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic       = "SWIFTSHIP_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub         = "SWIFTSHIP_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubNotificationTopic = "SWIFTSHIP_PUBSUB_NOTIFICATION_TOPIC"
	EnvPubSubNotificationSub   = "SWIFTSHIP_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

// legacyDBEnvVars are the discrete connection vars accepted when EnvDBDSN is
// not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
