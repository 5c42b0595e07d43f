package soil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayFunc_Adapts(t *testing.T) {
	var got uint32
	d := DelayFunc(func(ns uint32) { got = ns })
	d.Delay(125_000)
	assert.Equal(t, uint32(125_000), got)
}

func TestSleepDelay_WaitsAtLeastTheRequestedTime(t *testing.T) {
	start := time.Now()
	SleepDelay{}.Delay(10_000_000)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestTimerDelay_WaitsAtLeastTheRequestedTime(t *testing.T) {
	start := time.Now()
	TimerDelay{}.Delay(10_000_000)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
