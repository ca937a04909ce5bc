package helpers

import "pricetrail/logger"

// LoggerInterface defines the interface the tracker logs through
type LoggerInterface interface {
	LogError(keyword string, err error)
	LogInfo(format string, args ...interface{})
}

// RunLogger routes tracker log output to the structured logger
type RunLogger struct{}

// NewRunLogger creates a new run logger instance
func NewRunLogger() *RunLogger {
	return &RunLogger{}
}

// LogError logs a per-keyword error
func (l *RunLogger) LogError(keyword string, err error) {
	logger.LogError("tracker", err, "keyword %q", keyword)
}

// LogInfo logs an informational message
func (l *RunLogger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
