package fiberlog

import (
	"time"

	authutils "ats-backend/lib/utils/auth-utils"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "resBody"
	TagActor   = "actor_id"
	RequestID  = "request_id"
)

// FuncTag вычисляет значение поля лога по запросу
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			return string(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			return string(c.Response().Body())
		},
		TagActor: func(c *fiber.Ctx, _ *data) interface{} {
			return authutils.GetActorID(c)
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID, c.Get(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
