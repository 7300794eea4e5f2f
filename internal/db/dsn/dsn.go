// Package dsn builds data source names and gorm dialectors from the configuration.
package dsn

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
)

// ErrUnsupportedEngine is returned for a gorm engine without a driver.
var ErrUnsupportedEngine = errors.New("unsupported gorm engine")

// Create builds the data source name for the configured engine.
func Create(cfg *config.Config) (string, error) {
	db := cfg.DB

	switch db.GormEngine {
	case config.EnginePostgres, "":
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host, db.Port, db.User, db.Password, db.Name)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out, nil
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User, db.Password, db.Host, db.Port, db.Name, mysqlExtras(db.Extras)), nil
	case config.EngineSQLite:
		if db.Extras == "" {
			return db.Name, nil
		}

		return db.Name + "?" + db.Extras, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEngine, db.GormEngine)
	}
}

// Dialector opens the gorm driver matching the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	dsn, err := Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn), nil
	default:
		return postgres.Open(dsn), nil
	}
}

// mysqlExtras makes sure time columns scan into time.Time.
func mysqlExtras(extras string) string {
	if extras == "" {
		return "parseTime=true&loc=UTC"
	}

	return extras
}
