package logger

import (
	"github.com/fatflowers/vcard/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Dev environments get a console encoder.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg != nil && cfg.Env == config.EnvDev {
		zcfg.Encoding = "console"
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"
	if cfg != nil && cfg.Log.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = lvl
	}
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
