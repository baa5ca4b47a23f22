package log

import (
	"github.com/patrickmn/go-cache"
	"time"
)

const DefaultThrottlingPeriod = time.Minute

// ThrottlingLogger drops a record when a record with the same message was
// written less than the throttling period ago.
type ThrottlingLogger interface {
	Logger
}

func NewThrottlingLogger(baseLogger Logger) ThrottlingLogger {
	return NewThrottlingLoggerWithPeriod(baseLogger, DefaultThrottlingPeriod)
}

func NewThrottlingLoggerWithPeriod(baseLogger Logger, period time.Duration) ThrottlingLogger {
	return &throttlingLogger{
		logger: baseLogger,
		cache:  cache.New(period, period*5),
	}
}

type throttlingLogger struct {
	logger Logger
	cache  *cache.Cache
}

func (t *throttlingLogger) New(ctx ...interface{}) Logger {
	return &throttlingLogger{logger: t.logger.New(ctx...), cache: t.cache}
}

func (t *throttlingLogger) Trace(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Trace, ctx...)
}

func (t *throttlingLogger) Debug(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Debug, ctx...)
}

func (t *throttlingLogger) Info(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Info, ctx...)
}

func (t *throttlingLogger) Warn(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Warn, ctx...)
}

func (t *throttlingLogger) Error(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Error, ctx...)
}

func (t *throttlingLogger) Crit(msg string, ctx ...interface{}) {
	t.logger.Crit(msg, ctx...)
}

func (t *throttlingLogger) logIfNeeded(msg string, log func(msg string, ctx ...interface{}), ctx ...interface{}) {
	if err := t.cache.Add(msg, struct{}{}, cache.DefaultExpiration); err == nil {
		log(msg, ctx...)
	}
}
