package logger

import "context"

type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Fatal(msg string, keysAndValues ...any)
}

type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, keysAndValues ...any) {}
func (n *NoOpLogger) Info(msg string, keysAndValues ...any)  {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...any)  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...any) {}
func (n *NoOpLogger) Fatal(msg string, keysAndValues ...any) {}

type contextKey string

const loggerKey contextKey = "logger"

func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &NoOpLogger{}
}
