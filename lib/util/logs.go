package util

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel maps the LOG_LEVEL environment value onto the logger. Unknown or
// empty values fall back to info.
func SetLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// NewLogger builds the JSON logger every Lambda uses
func NewLogger(level string, isLocal bool) *logrus.Logger {
	logger := logrus.New()
	SetLogLevel(logger, level)
	logger.SetFormatter(&logrus.JSONFormatter{
		PrettyPrint: isLocal,
	})
	return logger
}
