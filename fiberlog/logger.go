package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// New — access-лог api-запросов поверх logrus.
// Preflight-запросы не логируются, ответы со статусом >= 400 пишутся как Warn
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		entry := requestEntry(cfg, c, time.Since(start))
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			entry.Warn("http запрос")
		} else {
			entry.Info("http запрос")
		}
		return err
	}
}

func requestEntry(cfg Config, c *fiber.Ctx, latency time.Duration) *log.Entry {
	fields := log.Fields{}
	for _, tag := range cfg.Tags {
		value := tagValue(tag, c, latency)
		if value == nil || value == "" {
			continue
		}
		fields[tag] = value
	}
	if cfg.Logger != nil {
		return cfg.Logger.WithFields(fields)
	}
	return log.WithFields(fields)
}
