package fiberlog

import "github.com/sirupsen/logrus"

// Config - настройки логирования запросов api.
// Logger nil - пишем в глобальный логгер logrus
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// SkipMethods - методы, которые не логируются (CORS preflight)
	SkipMethods []string
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagActor,
	},
	SkipMethods: []string{"OPTIONS"},
}
