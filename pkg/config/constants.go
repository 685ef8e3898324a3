package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "MOBELHAUS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "MOBELHAUS_APP_ENV"
	EnvPort       = "MOBELHAUS_APP_PORT"
	EnvDBDSN      = "MOBELHAUS_DB_DSN"
	EnvDBHost     = "MOBELHAUS_DB_HOST"
	EnvDBUser     = "MOBELHAUS_DB_USER"
	EnvDBName     = "MOBELHAUS_DB_NAME"
	EnvRedisURL   = "MOBELHAUS_REDIS_URL"
	EnvJWTSecret  = "MOBELHAUS_JWT_SECRET"
	EnvJWTIssuer  = "MOBELHAUS_JWT_ISSUER"
	EnvJWTExpMins = "MOBELHAUS_JWT_EXPIRATION_MINUTES"
	EnvGCSBucket  = "MOBELHAUS_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
