// Package fiber provides a zerolog access-log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger"
)

// HeaderPerformance carries the handler latency in seconds.
const HeaderPerformance = "X-Performance"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CheckAliveURI is not logged when Config.DisableCheckAlive is set.
	CheckAliveURI string

	// RequestIDKey is the fiber.Locals key holding the request id, if any.
	RequestIDKey string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	CheckAliveURI: "/checkalive",
	RequestIDKey:  "requestid",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CheckAliveURI == "" {
		cfg.CheckAliveURI = ConfigDefault.CheckAliveURI
	}

	if cfg.RequestIDKey == "" {
		cfg.RequestIDKey = ConfigDefault.RequestIDKey
	}

	return cfg
}

// New creates a fiber access logging middleware writing one zerolog line per request.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	accessLog := zerolog.New(zerolog.MultiLevelWriter(accessWriters(cfg.Config)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler write the response so the logged status is the sent one
			if hErr := c.App().ErrorHandler(c, chainErr); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start).Seconds()
		c.Set(HeaderPerformance, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes the path, log what the client actually sent
		uri := string(c.Request().RequestURI())

		event := accessLog.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64(HeaderPerformance, elapsed).
			Str("URI", uri).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderXForwardedFor, c.Get(fiber.HeaderXForwardedFor))

		if id, ok := c.Locals(cfg.RequestIDKey).(string); ok && id != "" {
			event.Str("request_id", id)
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

func accessWriters(cfg logger.Log) []io.Writer {
	var writers []io.Writer

	if cfg.File.Enabled {
		if cfg.File.Path != "" {
			if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
				log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

				return writers
			}
		}

		writers = append(writers, logger.RollingFile(cfg.File.Path, cfg.File.Access))
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return writers
}
