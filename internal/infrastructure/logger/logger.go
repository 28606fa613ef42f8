package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"backoffice/internal/config"
)

const serviceName = "backoffice"

// New builds the production logger, JSON unless cfg asks for console output.
// Unknown levels fall back to info.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zcfg.Sampling = nil
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.InitialFields = map[string]interface{}{"service": serviceName}

	return zcfg.Build()
}
