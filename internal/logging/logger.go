package logging

import (
	"go.uber.org/zap"
)

var Logger = zap.NewNop()

// Init initializes the global logger. dev=true uses development config.
// Safe to call more than once; the last call wins.
func Init(dev bool) error {
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Sync flushes buffered entries. Call before process exit.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
