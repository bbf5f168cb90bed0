package audio

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/scsbarna-pixel/automatizador/api"
)

// blockFrames is the fixed output block size, in frames, pulled per
// real-time callback.
const blockFrames = 2048

// Output abstracts the audio backend pulling frames from a streamer.
// Start must begin invoking the streamer on the backend's own thread;
// Stop must halt pulling and is idempotent.
type Output interface {
	Start(dev api.Device, rate beep.SampleRate, s beep.Streamer) error
	Stop()
}

// speakerOutput renders through beep's speaker. The underlying backend only
// drives the system default output, so the device index is informational.
type speakerOutput struct{}

func (speakerOutput) Start(dev api.Device, rate beep.SampleRate, s beep.Streamer) error {
	if err := speaker.Init(rate, blockFrames); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (speakerOutput) Stop() {
	speaker.Clear()
}

// Devices enumerates selectable outputs as index/label pairs. The speaker
// backend exposes a single default device.
func Devices() []api.Device {
	return []api.Device{{Index: 0, Name: "default output"}}
}

// DefaultDevice returns the device used when no index was configured.
func DefaultDevice() api.Device {
	return Devices()[0]
}
