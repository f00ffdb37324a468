package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gradflow/gradflow/types"
)

// NewLogger builds a zap logger from the log section.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, types.WrapError(types.ErrInvalidConfiguration, "parse log level", err)
		}
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidConfiguration, "build logger", err)
	}
	return logger, nil
}
