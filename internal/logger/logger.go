package logger

import (
	"go.uber.org/zap"
)

var base = zap.NewNop()

// Init builds the process-wide logger. Production config for the
// "production" environment, human-readable development output otherwise.
func Init(env string) {
	var err error
	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return base
}

func With(fields ...zap.Field) *zap.Logger {
	return base.With(fields...)
}

// Sync flushes buffered log entries. Safe to call at shutdown.
func Sync() {
	_ = base.Sync()
}
