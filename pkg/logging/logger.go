//go:generate mockgen -package=mocks -destination=../../mocks/mock_logger.go github.com/enigmacrack/enigmacrack/pkg/logging Logger

// Package logging is the structured logger shared by the engine, the cracker
// and the command line.
package logging

// Logger defines a common interface for logging.
// This is used to allow for mock loggers in tests.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}
