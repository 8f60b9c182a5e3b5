package cpu

import (
	"errors"

	"github.com/go7box/chip8/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrStackFull   = errors.New(f("stack full"))
	ErrStackEmpty  = errors.New(f("stack empty"))
	ErrFetchBounds = errors.New(f("fetch out of bounds"))
	ErrMemBounds   = errors.New(f("memory out of bounds"))
	ErrRomSize     = errors.New(f("rom image too large"))

	// Configuration errors
	ErrConfigRate = errors.New(f("cycle rate invalid"))
)

// ErrOpcode reports an instruction word with no assigned decoding along
// with the program counter it was fetched from.
type ErrOpcode struct {
	Word Opcode
	Pc   uint16
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x at 0x%03x", uint16(eo.Word), eo.Pc)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
