package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagMethod    = "method"
	TagPath      = "path"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagIP        = "ip"
	TagRequestID = "request_id"
)

func tagValue(tag string, c *fiber.Ctx, latency time.Duration) interface{} {
	switch tag {
	case TagMethod:
		return c.Method()
	case TagPath:
		return c.Path()
	case TagStatus:
		return c.Response().StatusCode()
	case TagLatency:
		return latency.String()
	case TagIP:
		return c.IP()
	case TagRequestID:
		return c.Get(fiber.HeaderXRequestID)
	}
	return nil
}
