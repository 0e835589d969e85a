// Package logging holds the process wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log = zap.NewNop().Sugar()

type Config struct {
	Level       string
	Encoding    string
	Development bool
}

// Init replaces Log with a logger built from cfg. Unknown levels fall back to info.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}
	logger, err := zc.Build()
	if err != nil {
		return err
	}
	Log = logger.Sugar()
	return nil
}

func Sync() {
	_ = Log.Sync()
}
