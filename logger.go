package filters

import "go.uber.org/zap"

// LogEvent describes one synchronizer or preset occurrence worth logging.
type LogEvent struct {
	Op     string
	Key    string
	Source string
	Count  int
	Err    error
}

// Logger records filter events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// NopLogger returns a Logger that drops every event.
func NopLogger() Logger {
	return noopLogger{}
}

type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger adapts a zap logger. Events carrying an error log at warn
// level, everything else at debug.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return zapLogger{logger: logger.Named("filters")}
}

func (l zapLogger) Log(event LogEvent) {
	fields := []zap.Field{zap.String("op", event.Op)}
	if event.Key != "" {
		fields = append(fields, zap.String("key", event.Key))
	}
	if event.Source != "" {
		fields = append(fields, zap.String("source", event.Source))
	}
	if event.Count > 0 {
		fields = append(fields, zap.Int("count", event.Count))
	}
	if event.Err != nil {
		l.logger.Warn(event.Op, append(fields, zap.Error(event.Err))...)
		return
	}
	l.logger.Debug(event.Op, fields...)
}
