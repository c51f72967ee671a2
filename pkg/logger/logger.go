// Package logger builds the zap loggers used by the extsort command.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Path  string        `yaml:"path"`
	Mode  FileMode      `yaml:"mode"`
	Level zapcore.Level `yaml:"level"`
	// DevMode makes DPanic level logs panic.
	DevMode bool `yaml:"devmode"`
}

// New returns a JSON logger writing to the destination named by conf.
func New(conf Config) (*zap.Logger, error) {
	w, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, err
	}
	opts := []zap.Option{zap.ErrorOutput(w)}
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(NewCore(conf.Level, w), opts...), nil
}

// NewCore returns a JSON encoding core writing entries at or above level
// to w.
func NewCore(level zapcore.Level, w zapcore.WriteSyncer) zapcore.Core {
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), w, level)
}

func encoderConfig() zapcore.EncoderConfig {
	conf := zap.NewProductionEncoderConfig()
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	conf.EncodeDuration = zapcore.StringDurationEncoder
	return conf
}
