package fiberlog

import "github.com/sirupsen/logrus"

// Config — настройки access-лога.
// Logger == nil пишет в корневой логгер logrus
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

var ConfigDefault = Config{
	Tags: []string{
		TagMethod,
		TagPath,
		TagStatus,
		TagLatency,
	},
}
