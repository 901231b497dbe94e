package config

// EnvPrefix is the envconfig namespace; all variables are spelled out in full
// in the struct tags, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ADSCOPE_DB_DSN"
	EnvDBHost = "ADSCOPE_DB_HOST"
	EnvDBUser = "ADSCOPE_DB_USER"
	EnvDBName = "ADSCOPE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
