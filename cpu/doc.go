// Package cpu implements the CHIP-8 virtual machine core.
//
// The machine consists of 4096 bytes of memory, sixteen 8-bit general
// purpose registers (v0-vF, with vF doubling as the carry/borrow/collision
// flag), a 16-bit address register (I), a 16-deep return stack, two 8-bit
// timers decremented at 60 Hz, a 64x32 monochrome framebuffer, and a
// 16-key input pad.
//
// Instructions are 16-bit big-endian words. Decode maps every possible
// word to a tagged Instruction or an explicit ErrOpcode; Execute applies
// one decoded instruction to the machine state and reports how the
// program counter should advance. Behavioral variants between historical
// interpreters (shift operand selection, address register increment on
// block transfers) are selected by Quirks at construction time.
package cpu
