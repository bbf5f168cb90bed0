package gain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink records every level set on it.
type memSink struct {
	mu     sync.Mutex
	level  float64
	levels []float64
}

func newMemSink(level float64) *memSink {
	return &memSink{level: level}
}

func (s *memSink) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *memSink) SetLevel(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = v
	s.levels = append(s.levels, v)
}

func (s *memSink) history() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.levels...)
}

func TestFadeTo_ReachesTarget(t *testing.T) {
	sink := newMemSink(1.0)
	f := NewFader(sink)

	f.FadeTo(context.Background(), 0.15, 100*time.Millisecond)

	require.Eventually(t, func() bool {
		return sink.Level() == 0.15
	}, time.Second, 10*time.Millisecond)

	// The ramp passed through intermediate levels rather than jumping.
	history := sink.history()
	assert.Greater(t, len(history), 1)
}

func TestFadeTo_MonotonicRamp(t *testing.T) {
	sink := newMemSink(0.0)
	f := NewFader(sink)

	f.FadeTo(context.Background(), 1.0, 100*time.Millisecond)
	require.Eventually(t, func() bool {
		return sink.Level() == 1.0
	}, time.Second, 10*time.Millisecond)

	prev := -1.0
	for _, v := range sink.history() {
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestFadeTo_ZeroDurationIsImmediate(t *testing.T) {
	sink := newMemSink(1.0)
	f := NewFader(sink)

	f.FadeTo(context.Background(), 0.5, 0)
	assert.Equal(t, 0.5, sink.Level())
}

func TestFadeTo_NewRampCancelsPrevious(t *testing.T) {
	sink := newMemSink(1.0)
	f := NewFader(sink)

	f.FadeTo(context.Background(), 0.0, 5*time.Second) // slow ramp down
	time.Sleep(120 * time.Millisecond)
	f.FadeTo(context.Background(), 0.9, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		return sink.Level() == 0.9
	}, time.Second, 10*time.Millisecond)

	// The slow ramp must not keep dragging the level back down.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0.9, sink.Level())
}

func TestStop_CancelsRamp(t *testing.T) {
	sink := newMemSink(1.0)
	f := NewFader(sink)

	f.FadeTo(context.Background(), 0.0, 5*time.Second)
	time.Sleep(120 * time.Millisecond)
	f.Stop()

	frozen := sink.Level()
	assert.Greater(t, frozen, 0.5, "a 5s ramp should barely have moved")
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, frozen, sink.Level(), "level must not change after Stop")
}

func TestFadeTo_ContextCancellation(t *testing.T) {
	sink := newMemSink(1.0)
	f := NewFader(sink)

	ctx, cancel := context.WithCancel(context.Background())
	f.FadeTo(ctx, 0.0, 5*time.Second)
	cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Greater(t, sink.Level(), 0.5, "cancelled ramp must stop early")
}

func TestMicDuck_Toggle(t *testing.T) {
	sink := newMemSink(1.0)
	duck := NewMicDuck(sink)
	ctx := context.Background()

	assert.True(t, duck.Toggle(ctx), "first toggle opens the mic")
	assert.True(t, duck.On())
	require.Eventually(t, func() bool {
		return sink.Level() == 0.15
	}, 3*time.Second, 10*time.Millisecond)

	assert.False(t, duck.Toggle(ctx), "second toggle closes the mic")
	assert.False(t, duck.On())
	assert.Equal(t, 1.0, sink.Level(), "restore is instant, not ramped")
}
