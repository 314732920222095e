package logsvc

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// NewZapLogger returns a production zap.Logger in PROD and a development one otherwise.
func NewZapLogger(conf *core.Config) *zap.Logger {
	var config zap.Config

	if conf.Env == core.EnvProd {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if conf.TestMode {
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger.With(zap.String("app", conf.AppName), zap.String("build", conf.Build))
}
