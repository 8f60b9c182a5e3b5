package emulator

import (
	"github.com/go7box/chip8/translate"
)

var f = translate.From

// ErrHalted indicates the program counter at which the machine halted.
type ErrHalted struct {
	Pc  uint16
	Err error
}

func (err *ErrHalted) Error() string {
	return f("halted at 0x%03x: %v", err.Pc, err.Err)
}

func (err *ErrHalted) Unwrap() error {
	return err.Err
}
