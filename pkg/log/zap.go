package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap implements Logger on top of zap's sugared logger. Message
// formatting is skipped entirely when the level is disabled.
type Zap struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*Zap)(nil)

// NewZap creates a Logger writing to w at the given minimum level.
func NewZap(level Level, w io.Writer) *Zap {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapLevel(level),
	)
	return &Zap{sugar: zap.New(core).Sugar()}
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *Zap) Debug(args ...any)                 { z.sugar.Debug(args...) }
func (z *Zap) Debugf(format string, args ...any) { z.sugar.Debugf(format, args...) }
func (z *Zap) Info(args ...any)                  { z.sugar.Info(args...) }
func (z *Zap) Infof(format string, args ...any)  { z.sugar.Infof(format, args...) }
func (z *Zap) Warn(args ...any)                  { z.sugar.Warn(args...) }
func (z *Zap) Warnf(format string, args ...any)  { z.sugar.Warnf(format, args...) }
func (z *Zap) Error(args ...any)                 { z.sugar.Error(args...) }
func (z *Zap) Errorf(format string, args ...any) { z.sugar.Errorf(format, args...) }

// Sync flushes buffered output.
func (z *Zap) Sync() error { return z.sugar.Sync() }
