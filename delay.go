package soil

import "time"

// Delay is the settling-wait capability consumed by the sensor driver. The
// sensor samples asynchronously after a register pointer write; Delay must
// hold the calling goroutine for at least ns nanoseconds before the result
// is read back. The wait is not cancellable: returning early does not fail
// the transaction, it silently yields stale data.
type Delay interface {
	Delay(ns uint32)
}

// DelayFunc adapts a plain function to the Delay interface.
type DelayFunc func(ns uint32)

func (f DelayFunc) Delay(ns uint32) {
	f(ns)
}

// SleepDelay waits with time.Sleep.
type SleepDelay struct{}

func (SleepDelay) Delay(ns uint32) {
	time.Sleep(time.Duration(ns) * time.Nanosecond)
}

// TimerDelay waits parked on a timer channel. Equivalent to SleepDelay for
// the driver; callers that already select on timer channels elsewhere can
// keep a single wait mechanism.
type TimerDelay struct{}

func (TimerDelay) Delay(ns uint32) {
	timer := time.NewTimer(time.Duration(ns) * time.Nanosecond)
	defer timer.Stop()
	<-timer.C
}
