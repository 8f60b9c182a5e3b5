package gui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/go7box/chip8/cpu"
	"github.com/go7box/chip8/emulator"
)

// waitingFront builds a front around an emulator suspended on a
// wait-for-key instruction, with no SDL resources attached.
func waitingFront(t *testing.T) (front *Front) {
	assert := assert.New(t)

	emu, err := emulator.NewEmulator(cpu.Config{})
	assert.NoError(err)

	// ldk v5.
	err = emu.LoadRom(bytes.NewReader([]byte{0xF5, 0x0A}))
	assert.NoError(err)

	assert.NoError(emu.Step())
	assert.Equal(emulator.STATUS_WAITING, emu.Status())

	return &Front{emu: emu}
}

func keyEvent(kind uint32, sym sdl.Keycode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{
		Type:   kind,
		Repeat: repeat,
		Keysym: sdl.Keysym{Sym: sym},
	}
}

func TestFront_Handle_KeyPress(t *testing.T) {
	assert := assert.New(t)

	front := waitingFront(t)
	quit := front.handle(keyEvent(sdl.KEYDOWN, sdl.K_x, 0))
	assert.False(quit)

	// K_x maps to pad key 0 and resolves the wait.
	assert.Equal(emulator.STATUS_RUNNING, front.emu.Status())
	assert.True(front.emu.Machine.Keys[0x0])
	assert.Equal(uint8(0x0), front.emu.Machine.V[5])

	front.handle(keyEvent(sdl.KEYUP, sdl.K_x, 0))
	assert.False(front.emu.Machine.Keys[0x0])
}

func TestFront_Handle_KeyRepeat(t *testing.T) {
	assert := assert.New(t)

	// A key held down before the wait executes must not resolve it
	// through auto-repeat.
	front := waitingFront(t)
	front.handle(keyEvent(sdl.KEYDOWN, sdl.K_x, 1))

	assert.Equal(emulator.STATUS_WAITING, front.emu.Status())
	assert.False(front.emu.Machine.Keys[0x0])
}

func TestFront_Handle_UnmappedKey(t *testing.T) {
	assert := assert.New(t)

	front := waitingFront(t)
	front.handle(keyEvent(sdl.KEYDOWN, sdl.K_F1, 0))

	assert.Equal(emulator.STATUS_WAITING, front.emu.Status())
}

func TestFront_Handle_Quit(t *testing.T) {
	assert := assert.New(t)

	front := waitingFront(t)
	assert.True(front.handle(&sdl.QuitEvent{}))
}
