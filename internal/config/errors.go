package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormengine is not one of postgres, mysql or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine is not supported")

	// ErrOverdueMonthsNotPositive error if config library.overduemonths is below 1.
	ErrOverdueMonthsNotPositive = errors.New("toml config library.overduemonths must be at least 1")

	// ErrMaxOverdueBooksNegative error if config library.maxoverduebooks is negative.
	ErrMaxOverdueBooksNegative = errors.New("toml config library.maxoverduebooks can not be negative")

	// ErrConfigNil is returned when a nil configuration is passed in.
	ErrConfigNil = errors.New("config is nil")
)
