package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const requestMessage = "запрос api"

func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields, len(ftm))
	for k, ft := range ftm {
		value := ft(c, d)
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		f[k] = value
	}
	return f
}

// New - middleware логирования запросов: 5xx пишется как error, 4xx и редиректы как warn
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.SkipMethods == nil {
		cfg.SkipMethods = ConfigDefault.SkipMethods
	}
	skip := make(map[string]bool, len(cfg.SkipMethods))
	for _, m := range cfg.SkipMethods {
		skip[m] = true
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)

	return func(c *fiber.Ctx) error {
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if skip[c.Method()] {
			return err
		}

		var entry *log.Entry
		if cfg.Logger == nil {
			entry = log.WithFields(getLogrusFields(ftm, c, d))
		} else {
			entry = cfg.Logger.WithFields(getLogrusFields(ftm, c, d))
		}
		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error(requestMessage)
		case status >= fiber.StatusMultipleChoices:
			entry.Warn(requestMessage)
		default:
			entry.Info(requestMessage)
		}
		return err
	}
}
