package config

const (
	// EnvPrefix namespaces every configuration variable.
	EnvPrefix = "BULKBUDDY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BULKBUDDY_DB_DSN"
	EnvDBHost = "BULKBUDDY_DB_HOST"
	EnvDBUser = "BULKBUDDY_DB_USER"
	EnvDBName = "BULKBUDDY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
