package config

import "time"

// Supported gorm engines.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string // database name, or the file path for sqlite
	GormEngine   string
	MaxOpenConns int
	SlowQuery    time.Duration // statements slower than this are logged at warn level
}
