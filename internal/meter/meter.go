// Package meter derives a live duration/cost display for an open chat
// session. The elapsed value is seeded once from now - sessionStart and then
// incremented locally on each tick; it is never re-synchronized against the
// database clock while running.
package meter

import (
	"context"
	"sync"
	"time"

	"github.com/TanishqPratap/content-oasis-app/internal/billing"
)

// Reading is one tick of the meter.
type Reading struct {
	ElapsedSeconds int64   `json:"elapsed_seconds"`
	Elapsed        string  `json:"elapsed"`
	Cost           float64 `json:"cost"`
}

// Meter emits one Reading per interval while running.
type Meter struct {
	hourlyRate float64
	interval   time.Duration
	elapsed    int64

	readings chan Reading
	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a meter for a session started at sessionStart. A non-positive
// interval defaults to one second.
func New(sessionStart time.Time, hourlyRate float64, interval time.Duration) *Meter {
	if interval <= 0 {
		interval = time.Second
	}
	elapsed := int64(time.Since(sessionStart).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return &Meter{
		hourlyRate: hourlyRate,
		interval:   interval,
		elapsed:    elapsed,
		readings:   make(chan Reading, 1),
		stop:       make(chan struct{}),
	}
}

// Readings returns the channel the meter delivers ticks on. The channel is
// closed when the meter stops.
func (m *Meter) Readings() <-chan Reading {
	return m.readings
}

// Run ticks until the context is cancelled or Stop is called. It emits the
// seeded reading immediately, then one reading per interval.
func (m *Meter) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.readings)

	m.deliver(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-ticker.C:
			m.elapsed++
			if !m.deliver(ctx) {
				return
			}
		}
	}
}

// Stop halts the meter. Safe to call more than once.
func (m *Meter) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Snapshot returns the current reading without waiting for a tick.
func (m *Meter) Snapshot() Reading {
	return reading(m.elapsed, m.hourlyRate)
}

func (m *Meter) deliver(ctx context.Context) bool {
	select {
	case m.readings <- reading(m.elapsed, m.hourlyRate):
		return true
	case <-ctx.Done():
		return false
	case <-m.stop:
		return false
	}
}

func reading(elapsed int64, rate float64) Reading {
	return Reading{
		ElapsedSeconds: elapsed,
		Elapsed:        billing.FormatTime(elapsed),
		Cost:           billing.CostSeconds(elapsed, rate),
	}
}

// SnapshotAt derives the reading for a session started at sessionStart as of
// now, without constructing a running meter. Handlers use this for the
// polled view of an open session.
func SnapshotAt(sessionStart time.Time, hourlyRate float64, now time.Time) Reading {
	elapsed := int64(now.Sub(sessionStart).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return reading(elapsed, hourlyRate)
}
