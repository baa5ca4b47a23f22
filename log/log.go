package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// Logger writes key/value pairs: log.Info("vote revealed", "proposal", name, "voter", addr).
type Logger interface {
	New(ctx ...interface{}) Logger
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root  = newRoot()
)

func newRoot() *logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "t"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level)
	return &logger{sugar: zap.New(core).Sugar()}
}

// SetVerbosity maps the node verbosity flag (0 = crit .. 5 = trace) onto zap levels.
func SetVerbosity(lvl Lvl) {
	switch {
	case lvl <= LvlCrit:
		level.SetLevel(zapcore.DPanicLevel)
	case lvl == LvlError:
		level.SetLevel(zapcore.ErrorLevel)
	case lvl == LvlWarn:
		level.SetLevel(zapcore.WarnLevel)
	case lvl == LvlInfo:
		level.SetLevel(zapcore.InfoLevel)
	default:
		level.SetLevel(zapcore.DebugLevel)
	}
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// New returns a logger with ctx attached to every record.
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

// NewFromZap wraps an existing zap logger, used by tests to observe records.
func NewFromZap(l *zap.Logger) Logger {
	return &logger{sugar: l.Sugar()}
}

type logger struct {
	sugar *zap.SugaredLogger
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{sugar: l.sugar.With(ctx...)}
}

func (l *logger) Trace(msg string, ctx ...interface{}) {
	l.sugar.Debugw(msg, append(ctx, "lvl", "trace")...)
}

func (l *logger) Debug(msg string, ctx ...interface{}) {
	l.sugar.Debugw(msg, ctx...)
}

func (l *logger) Info(msg string, ctx ...interface{}) {
	l.sugar.Infow(msg, ctx...)
}

func (l *logger) Warn(msg string, ctx ...interface{}) {
	l.sugar.Warnw(msg, ctx...)
}

func (l *logger) Error(msg string, ctx ...interface{}) {
	l.sugar.Errorw(msg, ctx...)
}

// Crit logs at the highest non-terminating level; callers decide whether to stop.
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.sugar.DPanicw(msg, ctx...)
}

func Trace(msg string, ctx ...interface{}) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }
