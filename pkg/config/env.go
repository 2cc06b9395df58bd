package config

// EnvPrefix is the envconfig prefix shared by every BAZARIO_* variable.
const EnvPrefix = "BAZARIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BAZARIO_DB_DSN"
	EnvDBHost = "BAZARIO_DB_HOST"
	EnvDBUser = "BAZARIO_DB_USER"
	EnvDBName = "BAZARIO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
