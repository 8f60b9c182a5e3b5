package gui

import (
	"github.com/veandco/go-sdl2/sdl"
)

// keymap is the conventional mapping of the host keyboard's left-hand
// block onto the 4x4 hexadecimal pad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[sdl.Keycode]uint8{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

// Key translates an SDL keycode to a pad key index.
func Key(sym sdl.Keycode) (key uint8, ok bool) {
	key, ok = keymap[sym]
	return
}
