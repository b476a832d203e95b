package log

import (
	"go.uber.org/zap"
)

var logger = zap.Must(zap.NewDevelopment())

// Init replaces the package logger. Pass nil to fall back to the default
// development logger.
func Init(l *zap.Logger) {
	if l == nil {
		l = zap.Must(zap.NewDevelopment())
	}
	logger = l
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
