package logsvc

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/user"
)

type ZapLogger struct {
	log *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger() (*ZapLogger, error) {
	var cfg zap.Config
	if core.Conf.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.InitialFields = map[string]interface{}{
		"app":   core.Conf.AppName,
		"env":   core.Conf.Env,
		"build": core.Conf.Build,
	}

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{log: log}, nil
}

// expected args: error | user.User | alternating key-value pairs
func (l ZapLogger) fields(args []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(args))
	var usrSet bool
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case user.User:
			if !usrSet { // only attach one acting user
				fields = append(fields, zap.String("user_id", arg.ID), zap.String("user_email", arg.Email))
				usrSet = true
			}
		case error:
			fields = append(fields, zap.Error(arg))
		case string:
			if i+1 < len(args) {
				fields = append(fields, zap.Any(arg, args[i+1]))
				i++
			} else {
				fields = append(fields, zap.String("detail", arg))
			}
		default:
			fields = append(fields, zap.Any(fmt.Sprintf("arg%d", i), arg))
		}
	}
	return fields
}

func (l ZapLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug(msg, l.fields(args)...)
}

func (l ZapLogger) Info(msg string, args ...interface{}) {
	l.log.Info(msg, l.fields(args)...)
}

func (l ZapLogger) Error(msg string, args ...interface{}) {
	l.log.Error(msg, l.fields(args)...)
}

func (l ZapLogger) Sync() error {
	return l.log.Sync()
}
