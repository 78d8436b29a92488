// Package fiber writes one access log line per request handled by a fiber app.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caredesk/caredesk/internal/logger"
)

// performanceHeader carries the handling time in seconds.
const performanceHeader = "X-Performance"

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Config selects the access log sinks: the rolling access file and,
	// with EnableAccessLogToConsole, stdout.
	Config logger.Log

	// Output replaces the sinks of Config when set.
	Output io.Writer

	// CacheControlError is sent with a 500 the error handler failed to render.
	// Default: max-age=0
	CacheControlError string

	// CheckAliveURI is not logged when Config.DisableCheckAlive is set.
	CheckAliveURI string

	// Identity names the acting user and role. It runs after the handler chain.
	Identity func(c *fiber.Ctx) (user string, role string)
}

// New returns the access log middleware. Errors of the chain are rendered by
// the app error handler here, so the logged status is the one sent.
func New(cfg Config) fiber.Handler {
	if cfg.CacheControlError == "" {
		cfg.CacheControlError = "max-age=0"
	}

	out := accessOutput(&cfg)
	var access *zerolog.Logger
	if out != nil {
		l := zerolog.New(out).With().Timestamp().Logger().Level(zerolog.NoLevel)
		access = &l
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			renderError(c, chainErr, cfg.CacheControlError)
		}

		elapsed := time.Since(start).Seconds()
		c.Locals("elapsed", elapsed)
		c.Response().Header.Set(performanceHeader, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if access == nil || skipped(c, &cfg) {
			return nil
		}

		ev := access.Log()
		requestFields(ev, c)
		ev.Int("status", c.Response().StatusCode()).Float64(performanceHeader, elapsed)

		if id := c.Response().Header.Peek(fiber.HeaderXRequestID); len(id) > 0 {
			ev.Bytes("request_id", id)
		}
		if cfg.Identity != nil {
			if user, role := cfg.Identity(c); user != "" {
				ev.Str("user", user).Str("role", role)
			}
		}
		if chainErr != nil {
			ev.Err(chainErr)
		}
		ev.Send()

		return nil
	}
}

// accessOutput collects the configured sinks, nil when access logging is off.
func accessOutput(cfg *Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}

	var sinks []io.Writer
	if cfg.Config.File.Enabled {
		if w := rollingAccessFile(&cfg.Config); w != nil {
			sinks = append(sinks, w)
		}
	}
	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			sinks = append(sinks, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			sinks = append(sinks, os.Stdout)
		}
	}

	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return zerolog.MultiLevelWriter(sinks...)
	}
}

func renderError(c *fiber.Ctx, err error, cacheControl string) {
	if c.App().ErrorHandler(c, err) == nil {
		return
	}
	_ = c.SendStatus(fiber.StatusInternalServerError)
	c.Response().Header.Set(fiber.HeaderCacheControl, cacheControl)
}

func skipped(c *fiber.Ctx, cfg *Config) bool {
	return cfg.Config.DisableCheckAlive && string(c.Request().RequestURI()) == cfg.CheckAliveURI
}

// requestFields adds the client side of the request. The path is taken before
// fasthttp normalization, so //a/b is logged as sent.
func requestFields(ev *zerolog.Event, c *fiber.Ctx) {
	uri := c.Path()
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		uri += "?" + string(q)
	}

	ev.Str("IP", c.IP()).
		Str("URI", uri).
		Str("method", c.Method()).
		Bytes("host", c.Request().Host())

	for _, h := range []string{fiber.HeaderXForwardedFor, fiber.HeaderUserAgent, fiber.HeaderOrigin, fiber.HeaderReferer} {
		if v := c.Get(h); v != "" {
			ev.Str(h, v)
		}
	}
}

func rollingAccessFile(cfg *logger.Log) io.Writer {
	if cfg.File.Path != "" {
		if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create access log directory")
			return nil
		}
	}

	return logger.RollingFile(cfg.File.Path, cfg.File.Access)
}
