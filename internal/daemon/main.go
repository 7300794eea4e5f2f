// Package daemon wires the store, the permission ledger and the orchestrator into the web service.
package daemon

import (
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/dsn"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/seed"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/tx"
	gormlog "github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger/adapter/gorm"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger/adapter/stdlogger"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg          *config.Config
	db           *gorm.DB
	orchestrator *orchestrator.Service
	webService   *web.Service
}

// Start serves the API until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// Orchestrator returns the request orchestrator.
func (d *Daemon) Orchestrator() *orchestrator.Service {
	return d.orchestrator
}

// Close releases the database pool.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database pool")
	}

	return sqlDB.Close() //nolint:wrapcheck
}

// Open connects to the configured database and brings the schema up to date.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dialector")
	}

	if cfg.DB.GormEngine == config.EngineMySQL {
		if err := mysqldriver.SetLogger(stdlogger.New(stdlogger.WithSource("mysql"))); err != nil {
			log.Warn().Err(err).Msg("failed to route mysql driver logs")
		}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlog.New(cfg.DB.SlowQuery),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database pool")
		}

		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}

// Seed fills the fixed role set, the default grants and optionally the bundled catalog.
func Seed(cfg *config.Config, db *gorm.DB) error {
	if err := seed.Roles(db, auth.DefaultRoles()); err != nil {
		return err //nolint:wrapcheck
	}

	if err := seed.Grants(db, auth.DefaultGrants()); err != nil {
		return err //nolint:wrapcheck
	}

	if cfg.Library.SeedBooks {
		return seed.Books(db) //nolint:wrapcheck
	}

	return nil
}

// NewOrchestrator builds the orchestrator from the configured policy.
func NewOrchestrator(cfg *config.Config, db *gorm.DB) (*orchestrator.Service, error) {
	ledger, err := auth.NewService(db, cfg.Library.PermissionCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create permission ledger")
	}

	policy := circulation.NewPolicy(cfg.Library.OverdueMonths, cfg.Library.MaxOverdueBooks)

	return orchestrator.New(tx.New(db, cfg.Library.StoreTimeout), ledger, policy), nil
}

// New opens the store and assembles the service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Seed(cfg, db); err != nil {
		return nil, err
	}

	svc, err := NewOrchestrator(cfg, db)
	if err != nil {
		return nil, err
	}

	summary, err := svc.Refresh(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "failed to recompute overdue lists")
	}

	log.Info().
		Int("users", summary.Users).
		Int("changed", summary.Changed).
		Int("over_limit", len(summary.OverLimit)).
		Msg("overdue lists recomputed")

	return &Daemon{
		cfg:          cfg,
		db:           db,
		orchestrator: svc,
		webService:   web.New(cfg, svc),
	}, nil
}
