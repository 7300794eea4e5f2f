package config

import (
	"time"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Library   Library
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	FastShutDown   bool   // skip the load balancer drain delay on shutdown
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the webserver
}

// Library holds the circulation policy and request handling limits.
type Library struct {
	// OverdueMonths is the number of calendar months after which a checkout counts as overdue.
	OverdueMonths int
	// MaxOverdueBooks is the largest overdue count a user may carry and still borrow.
	MaxOverdueBooks int
	// StoreTimeout bounds every store call. Expiry is reported as a retryable error.
	StoreTimeout time.Duration
	// SeedBooks loads the bundled catalog into an empty books table at start-up.
	SeedBooks bool
	// PermissionCacheSize is the number of grant decisions kept in memory.
	PermissionCacheSize int
}
