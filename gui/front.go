package gui

import (
	"context"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/go7box/chip8/emulator"
)

const FRAME_INTERVAL = time.Second / 60 // Presentation rate.

// Front ties the SDL collaborators to a running emulator: key events in,
// framebuffer and tone out.
type Front struct {
	emu     *emulator.Emulator
	display *Display
	audio   *Audio
}

// NewFront initializes SDL and opens the window and audio device.
func NewFront(emu *emulator.Emulator, title string, scale int) (front *Front, err error) {
	err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS)
	if err != nil {
		return
	}

	front = &Front{emu: emu}

	front.display, err = NewDisplay(title, scale)
	if err != nil {
		sdl.Quit()
		return
	}

	front.audio, err = NewAudio()
	if err != nil {
		front.display.Close()
		sdl.Quit()
		return
	}

	return
}

// Run services SDL events and presents frames until the window is
// closed or the context is cancelled. Must be called from the main
// goroutine. cancel is invoked on window close so the emulator's Run
// loop stops with it.
func (front *Front) Run(ctx context.Context, cancel context.CancelFunc) (err error) {
	frame := time.NewTicker(FRAME_INTERVAL)
	defer frame.Stop()

	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			if front.handle(ev) {
				cancel()
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-frame.C:
		}

		err = front.display.Draw(front.emu.Pixels())
		if err != nil {
			return
		}
		err = front.audio.SetActive(front.emu.SoundActive())
		if err != nil {
			return
		}
	}
}

// handle applies a single SDL event to the emulator and reports whether
// the window was closed.
func (front *Front) handle(ev sdl.Event) (quit bool) {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		quit = true

	case *sdl.KeyboardEvent:
		// Auto-repeat is not a new press; forwarding it would resolve
		// a key wait without one.
		if ev.Repeat != 0 {
			break
		}
		key, ok := Key(ev.Keysym.Sym)
		if !ok {
			break
		}
		switch ev.Type {
		case sdl.KEYDOWN:
			front.emu.KeyDown(key)
		case sdl.KEYUP:
			front.emu.KeyUp(key)
		}
	}
	return
}

// Close releases all SDL resources.
func (front *Front) Close() (err error) {
	front.audio.Close()
	front.display.Close()
	sdl.Quit()
	return
}
