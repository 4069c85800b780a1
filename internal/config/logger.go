package config

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds the global zap logger from the configured level and
// format. json selects the production encoder; console the development one.
func InitLogger(cfg Config) error {
	logger, err := NewLogger(cfg.LogLevel(), cfg.LogFormat())
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func NewLogger(level string, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(parsed)
	// stdout belongs to the interactive session
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
