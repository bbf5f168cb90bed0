package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/scsbarna-pixel/automatizador/api"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

// Player is the playback core used both for scheduled playback and for
// pre-listen. Load decodes a clip into memory; Play streams it through the
// output backend's real-time callback with frame-accurate seeking.
//
// Two execution contexts touch a Player: the control context (Play, Pause,
// Seek, position queries) and the backend's real-time callback invoking
// Stream. The only shared mutable state is the cursor, the playing flag and
// the gain scalar; mu guards exactly those and is never held across I/O.
type Player struct {
	mu      sync.Mutex
	cursor  int // playhead, in frames
	playing bool
	gain    float64

	buf *Buffer
	out Output
}

// NewPlayer creates a player rendering through the system speaker.
func NewPlayer() *Player {
	return NewPlayerWithOutput(speakerOutput{})
}

// NewPlayerWithOutput creates a player over a custom output backend.
func NewPlayerWithOutput(out Output) *Player {
	return &Player{out: out, gain: 1.0}
}

// Load fully decodes the clip at path, replacing any previous buffer and
// rewinding the cursor. On failure the player keeps its previous state and
// no partial buffer is allocated.
func (p *Player) Load(path string) error {
	buf, err := LoadBuffer(path)
	if err != nil {
		return err
	}

	p.Pause()

	p.mu.Lock()
	p.buf = buf
	p.cursor = 0
	p.mu.Unlock()
	return nil
}

// Play opens the output stream on the given device and starts pulling
// frames. A failure to open the stream is reported without side effects:
// IsPlaying stays false and no retry is attempted. Resuming after the
// buffer finished does not rewind; the caller seeks explicitly first.
func (p *Player) Play(dev api.Device) error {
	p.mu.Lock()
	if p.buf == nil {
		p.mu.Unlock()
		return autoerrors.NewPlayerError("play", "", autoerrors.ErrNoClip)
	}
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = true
	rate := p.buf.rate
	p.mu.Unlock()

	if err := p.out.Start(dev, rate, p); err != nil {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
		return autoerrors.NewPlayerError("stream", fmt.Sprintf("device %d", dev.Index), err)
	}
	return nil
}

// Pause stops pulling frames and tears down the stream. The cursor is left
// where it was so Play resumes from the same frame. Idempotent.
func (p *Player) Pause() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	p.out.Stop()
}

// Seek moves the playhead to fraction of the buffer length. The fraction is
// clamped to [0, 1] and the resulting frame is rounded, applied under the
// same critical section the callback reads the cursor in.
func (p *Player) Seek(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	p.cursor = int(math.Round(fraction * float64(p.buf.Frames())))
}

// Position returns the playhead as a fraction of the buffer, 0 when no clip
// is loaded.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil || p.buf.Frames() == 0 {
		return 0
	}
	return float64(p.cursor) / float64(p.buf.Frames())
}

// Offset returns the playhead in seconds. This is the value the pre-listen
// editor commits onto an event as its start offset.
func (p *Player) Offset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return 0
	}
	return float64(p.cursor) / float64(p.buf.rate)
}

// IsPlaying reports whether the callback is currently consuming frames.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Loaded reports whether a clip is held in memory.
func (p *Player) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf != nil
}

// Duration returns the total playing time of the loaded clip.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return 0
	}
	return p.buf.Duration()
}

// TimeLabel formats elapsed and total time as "MM:SS / MM:SS".
func (p *Player) TimeLabel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return "00:00 / 00:00"
	}
	cur := int(float64(p.cursor) / float64(p.buf.rate))
	tot := int(float64(p.buf.Frames()) / float64(p.buf.rate))
	return fmt.Sprintf("%02d:%02d / %02d:%02d", cur/60, cur%60, tot/60, tot%60)
}

// SetLevel sets the output gain in [0, 1], applied per frame in the
// callback. Implements the fader's sink.
func (p *Player) SetLevel(level float64) {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	p.mu.Lock()
	p.gain = level
	p.mu.Unlock()
}

// Level returns the current output gain.
func (p *Player) Level() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gain
}

// Stream is the real-time callback: the backend invokes it on its own
// thread whenever it needs the next block of frames. It must never block
// for an unbounded duration, so it only takes mu around the shared scalars.
//
// Not playing: zero-fill and signal the stream to stop. End of buffer: copy
// the in-range tail, zero the remainder, flip playing off and signal stop —
// that transition is how Finished is reached. Otherwise copy a full block
// and advance the cursor.
func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	if !p.playing || p.buf == nil {
		p.mu.Unlock()
		zeroFill(samples)
		return 0, false
	}

	n := copy(samples, p.buf.samples[p.cursor:])
	p.cursor += n
	if n < len(samples) {
		p.playing = false
	}
	gain := p.gain
	p.mu.Unlock()

	if gain != 1.0 {
		for i := 0; i < n; i++ {
			samples[i][0] *= gain
			samples[i][1] *= gain
		}
	}
	if n < len(samples) {
		zeroFill(samples[n:])
		if n == 0 {
			return 0, false
		}
	}
	return n, true
}

// Err implements beep.Streamer; the in-memory buffer cannot fail mid-play.
func (p *Player) Err() error {
	return nil
}

func zeroFill(samples [][2]float64) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
}
