package common

import (
	"sync/atomic"
	"time"
)

// Clock supplies unix time in seconds.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// ManualClock is a clock which only moves when told to.
type ManualClock struct {
	now int64
}

func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() int64 {
	return atomic.LoadInt64(&c.now)
}

func (c *ManualClock) Set(now int64) {
	atomic.StoreInt64(&c.now, now)
}

func (c *ManualClock) Advance(d time.Duration) {
	atomic.AddInt64(&c.now, int64(d/time.Second))
}

func TimestampToTime(timestamp int64) time.Time {
	return time.Unix(timestamp, 0)
}
