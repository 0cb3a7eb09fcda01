package config

// Storage engines.
const (
	EngineMemory     = "memory"
	EngineSQLite     = "sqlite"
	EngineMySQL      = "mysql"
	EnginePostgres   = "postgres"
	EngineKVMySQL    = "kv-mysql"
	EngineKVPostgres = "kv-postgres"
)

// Storage holds the persistent blob store settings.
type Storage struct {
	Engine   string `validate:"oneof=memory sqlite mysql postgres kv-mysql kv-postgres"`
	Path     string // sqlite database file
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Table    string // table used by the kv engines
}
