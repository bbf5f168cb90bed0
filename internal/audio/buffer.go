package audio

import (
	"os"
	"time"

	"github.com/faiface/beep"

	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

// Buffer holds a clip fully decoded into memory: stereo samples at the
// file's native rate. Mono sources arrive duplicated into both channels
// because the decoders already stream everything as two-channel samples.
type Buffer struct {
	samples [][2]float64
	rate    beep.SampleRate
}

// LoadBuffer opens and fully decodes path. Unreadable paths and corrupt or
// unsupported files fail with a PlayerError; no partial buffer is returned.
func LoadBuffer(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, autoerrors.NewPlayerError("open", path, err)
	}

	streamer, format, err := decodeClip(f, path)
	if err != nil {
		f.Close()
		return nil, autoerrors.NewPlayerError("decode", path, err)
	}
	defer streamer.Close()

	capacity := streamer.Len()
	if capacity < 0 {
		capacity = 0
	}
	samples := make([][2]float64, 0, capacity)
	chunk := make([][2]float64, 2048)
	for {
		n, ok := streamer.Stream(chunk)
		samples = append(samples, chunk[:n]...)
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, autoerrors.NewPlayerError("decode", path, err)
	}

	return &Buffer{samples: samples, rate: format.SampleRate}, nil
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	return len(b.samples)
}

// SampleRate returns the buffer's native sample rate.
func (b *Buffer) SampleRate() beep.SampleRate {
	return b.rate
}

// Duration returns the total playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	return b.rate.D(len(b.samples))
}
