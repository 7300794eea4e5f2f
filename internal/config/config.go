// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON document merged over main.toml.
const EnvConfigJSON = "LIBRARY_CONFIG_JSON"

const (
	defaultShutDownTime        = 5
	defaultOverdueMonths       = 1
	defaultMaxOverdueBooks     = 3
	defaultStoreTimeout        = 5 * time.Second
	defaultPermissionCacheSize = 256
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if override := os.Getenv(EnvConfigJSON); override != "" {
		c, err = decodeAndMergeConfig(c, override)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrapf(err, "failed to decode %s", EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate rejects settings the service can not run with and fills in defaults for the rest.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EnginePostgres
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Library.OverdueMonths < 0 {
		return errors.Wrap(ErrOverdueMonthsNotPositive, invalidErrMessage)
	}

	if c.Library.MaxOverdueBooks < 0 {
		return errors.Wrap(ErrMaxOverdueBooksNegative, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Library.OverdueMonths == 0 {
		c.Library.OverdueMonths = defaultOverdueMonths
	}

	if c.Library.MaxOverdueBooks == 0 {
		c.Library.MaxOverdueBooks = defaultMaxOverdueBooks
	}

	if c.Library.StoreTimeout <= 0 {
		c.Library.StoreTimeout = defaultStoreTimeout
	}

	if c.Library.PermissionCacheSize <= 0 {
		c.Library.PermissionCacheSize = defaultPermissionCacheSize
	}

	return nil
}
