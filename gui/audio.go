package gui

import (
	"github.com/veandco/go-sdl2/sdl"
)

const (
	AUDIO_FREQ   = 44100 // Samples per second.
	TONE_FREQ    = 440   // Square wave pitch in Hz.
	TONE_VOLUME  = 32    // Amplitude around the silence level.
	queueTarget  = AUDIO_FREQ / 10
	samplesPerCb = 512
)

// Audio plays a square wave while the machine's sound timer is nonzero.
type Audio struct {
	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	wave   []uint8
	active bool
}

// NewAudio opens the default playback device, paused. SDL must be
// initialized first.
func NewAudio() (aud *Audio, err error) {
	aud = &Audio{}

	desired := &sdl.AudioSpec{
		Freq:     AUDIO_FREQ,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  samplesPerCb,
	}

	aud.id, err = sdl.OpenAudioDevice("", false, desired, &aud.spec, 0)
	if err != nil {
		return
	}

	// One whole period of the square wave, repeated into the queue.
	period := AUDIO_FREQ / TONE_FREQ
	aud.wave = make([]uint8, period)
	for n := range aud.wave {
		if n < period/2 {
			aud.wave[n] = aud.spec.Silence + TONE_VOLUME
		} else {
			aud.wave[n] = aud.spec.Silence - TONE_VOLUME
		}
	}

	sdl.PauseAudioDevice(aud.id, true)
	return
}

// SetActive starts or stops the tone. Safe to call every frame; the
// wave queue is topped up while the tone is active.
func (aud *Audio) SetActive(active bool) (err error) {
	if active {
		for sdl.GetQueuedAudioSize(aud.id) < queueTarget {
			err = sdl.QueueAudio(aud.id, aud.wave)
			if err != nil {
				return
			}
		}
	}

	if active != aud.active {
		sdl.PauseAudioDevice(aud.id, !active)
		aud.active = active
	}
	return
}

// Close releases the audio device.
func (aud *Audio) Close() (err error) {
	sdl.CloseAudioDevice(aud.id)
	return
}
