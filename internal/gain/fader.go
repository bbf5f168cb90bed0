package gain

import (
	"context"
	"sync"
	"time"
)

// Sink is anything with a settable output level in [0, 1].
type Sink interface {
	Level() float64
	SetLevel(float64)
}

// fadeJoinTimeout bounds how long starting a new ramp waits for the old one
// to acknowledge cancellation, so two ramps never race on the same sink.
const fadeJoinTimeout = 200 * time.Millisecond

// Fader ramps a sink's level over time in a background task cancelled
// through a context. Only one ramp runs at a time: starting a new one
// cancels and joins the previous ramp first.
type Fader struct {
	sink Sink

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFader creates a fader over the sink.
func NewFader(sink Sink) *Fader {
	return &Fader{sink: sink}
}

// FadeTo ramps the sink from its current level to target over d, stepping
// at roughly 20 updates per second. A zero or negative duration sets the
// target immediately.
func (f *Fader) FadeTo(ctx context.Context, target float64, d time.Duration) {
	f.Stop()

	if d <= 0 {
		f.sink.SetLevel(target)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	f.mu.Lock()
	f.cancel = cancel
	f.done = done
	f.mu.Unlock()

	go func() {
		defer close(done)

		start := f.sink.Level()
		steps := int(d.Seconds() * 20)
		if steps < 1 {
			steps = 1
		}
		interval := d / time.Duration(steps)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 1; i <= steps; i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			ratio := float64(i) / float64(steps)
			f.sink.SetLevel(start + (target-start)*ratio)
		}
		f.sink.SetLevel(target)
	}()
}

// Stop cancels the running ramp, if any, and waits for it to exit within
// the join timeout. The sink keeps whatever level the ramp last set.
func (f *Fader) Stop() {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(fadeJoinTimeout):
	}
}

// MicDuck implements the MIC button behavior: the first toggle fades the
// sink down to 15% over one second, the second snaps it back to full level
// instantly.
type MicDuck struct {
	fader *Fader
	sink  Sink

	mu sync.Mutex
	on bool
}

// NewMicDuck creates the toggle over the sink.
func NewMicDuck(sink Sink) *MicDuck {
	return &MicDuck{fader: NewFader(sink), sink: sink}
}

// Toggle flips MIC mode and returns the new state: true means the mic is
// open and program audio is ducked.
func (m *MicDuck) Toggle(ctx context.Context) bool {
	m.mu.Lock()
	m.on = !m.on
	on := m.on
	m.mu.Unlock()

	if on {
		m.fader.FadeTo(ctx, 0.15, time.Second)
	} else {
		m.fader.Stop()
		m.sink.SetLevel(1.0)
	}
	return on
}

// On reports whether MIC mode is currently active.
func (m *MicDuck) On() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on
}
