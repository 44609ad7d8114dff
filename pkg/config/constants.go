package config

const (
	// EnvPrefix is intentionally empty: every variable carries the full
	// MEDSTOCK_ name in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MEDSTOCK_DB_DSN"
	EnvDBHost = "MEDSTOCK_DB_HOST"
	EnvDBUser = "MEDSTOCK_DB_USER"
	EnvDBName = "MEDSTOCK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
