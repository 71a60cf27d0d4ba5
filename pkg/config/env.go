package config

// EnvPrefix scopes every recognized environment variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TRADEFLOW_DB_DSN"
	EnvDBHost = "TRADEFLOW_DB_HOST"
	EnvDBUser = "TRADEFLOW_DB_USER"
	EnvDBName = "TRADEFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
