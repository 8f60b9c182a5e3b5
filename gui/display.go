// Package gui presents the machine to the host: a scaled window for the
// framebuffer, a keyboard mapping for the 16-key pad, and a square wave
// tone gated by the sound timer. All of it is built on SDL.
package gui

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/go7box/chip8/cpu"
)

const DEFAULT_SCALE = 16 // Window pixels per framebuffer pixel.

// Display renders the framebuffer bit grid into an SDL window.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32
}

// NewDisplay opens the emulator window. SDL must be initialized first.
func NewDisplay(title string, scale int) (disp *Display, err error) {
	if scale <= 0 {
		scale = DEFAULT_SCALE
	}

	disp = &Display{scale: int32(scale)}

	disp.window, err = sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		cpu.DISPLAY_WIDTH*int32(scale), cpu.DISPLAY_HEIGHT*int32(scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return
	}

	disp.renderer, err = sdl.CreateRenderer(disp.window, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		disp.window.Destroy()
		return
	}

	return
}

// Draw presents one frame of the framebuffer, lit pixels as filled
// scaled rectangles.
func (disp *Display) Draw(pixels [cpu.DISPLAY_HEIGHT][cpu.DISPLAY_WIDTH]uint8) (err error) {
	err = disp.renderer.SetDrawColor(0, 0, 0, 255)
	if err != nil {
		return
	}
	err = disp.renderer.Clear()
	if err != nil {
		return
	}

	err = disp.renderer.SetDrawColor(255, 255, 255, 255)
	if err != nil {
		return
	}

	for y := range pixels {
		for x, pixel := range pixels[y] {
			if pixel == 0 {
				continue
			}
			rect := sdl.Rect{
				X: int32(x) * disp.scale,
				Y: int32(y) * disp.scale,
				W: disp.scale,
				H: disp.scale,
			}
			err = disp.renderer.FillRect(&rect)
			if err != nil {
				return
			}
		}
	}

	disp.renderer.Present()
	return
}

// Close releases the window and renderer.
func (disp *Display) Close() (err error) {
	if disp.renderer != nil {
		disp.renderer.Destroy()
	}
	if disp.window != nil {
		disp.window.Destroy()
	}
	return
}
