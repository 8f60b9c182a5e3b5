package cpu

import (
	"fmt"
)

// Opcode is a raw 16-bit instruction word as fetched from memory.
type Opcode uint16

// Family returns the high nibble, the primary dispatch selector.
func (word Opcode) Family() uint8 {
	return uint8(word>>12) & 0xF
}

// X returns the second nibble, usually a register index.
func (word Opcode) X() uint8 {
	return uint8(word>>8) & 0xF
}

// Y returns the third nibble, usually a second register index.
func (word Opcode) Y() uint8 {
	return uint8(word>>4) & 0xF
}

// N returns the low nibble.
func (word Opcode) N() uint8 {
	return uint8(word) & 0xF
}

// NN returns the low byte immediate.
func (word Opcode) NN() uint8 {
	return uint8(word)
}

// NNN returns the low 12-bit address immediate.
func (word Opcode) NNN() uint16 {
	return uint16(word) & 0xFFF
}

// MakeNNN packs a family selector and a 12-bit address into a word.
func MakeNNN(family uint8, nnn uint16) Opcode {
	return Opcode(uint16(family&0xF)<<12 | nnn&0xFFF)
}

// MakeXNN packs a family selector, register index, and byte immediate.
func MakeXNN(family, x, nn uint8) Opcode {
	return Opcode(uint16(family&0xF)<<12 | uint16(x&0xF)<<8 | uint16(nn))
}

// MakeXYN packs a family selector, two register indices, and a nibble.
func MakeXYN(family, x, y, n uint8) Opcode {
	return Opcode(uint16(family&0xF)<<12 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF))
}

// Op identifies a decoded instruction variant.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SYS     = Op(iota) // sys
	OP_CLS                // cls
	OP_RET                // ret
	OP_JP                 // jp
	OP_CALL               // call
	OP_SE                 // se
	OP_SNE                // sne
	OP_SEV                // sev
	OP_LD                 // ld
	OP_ADD                // add
	OP_LDV                // ldv
	OP_OR                 // or
	OP_AND                // and
	OP_XOR                // xor
	OP_ADDV               // addv
	OP_SUB                // sub
	OP_SHR                // shr
	OP_SUBN               // subn
	OP_SHL                // shl
	OP_SNEV               // snev
	OP_LDI                // ldi
	OP_JPV0               // jpv0
	OP_RND                // rnd
	OP_DRW                // drw
	OP_SKP                // skp
	OP_SKNP               // sknp
	OP_LDDT               // lddt
	OP_LDK                // ldk
	OP_STDT               // stdt
	OP_STST               // stst
	OP_ADDI               // addi
	OP_FONT               // font
	OP_BCD                // bcd
	OP_SAVE               // save
	OP_RESTORE            // restore
)

// Instruction is a decoded instruction word with its operand fields
// already extracted. It is immutable once produced by Decode.
type Instruction struct {
	Word Opcode // Raw instruction word.
	Op   Op     // Variant tag.
	X    uint8  // First register index.
	Y    uint8  // Second register index.
	N    uint8  // Nibble immediate.
	NN   uint8  // Byte immediate.
	NNN  uint16 // Address immediate.
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() (out string) {
	switch ins.Op {
	case OP_SYS, OP_JP, OP_CALL, OP_LDI, OP_JPV0:
		out = fmt.Sprintf("%v 0x%03x", ins.Op, ins.NNN)
	case OP_CLS, OP_RET:
		out = ins.Op.String()
	case OP_SE, OP_SNE, OP_LD, OP_ADD, OP_RND:
		out = fmt.Sprintf("%v v%X, 0x%02x", ins.Op, ins.X, ins.NN)
	case OP_DRW:
		out = fmt.Sprintf("%v v%X, v%X, %d", ins.Op, ins.X, ins.Y, ins.N)
	case OP_SEV, OP_SNEV, OP_LDV, OP_OR, OP_AND, OP_XOR, OP_ADDV, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		out = fmt.Sprintf("%v v%X, v%X", ins.Op, ins.X, ins.Y)
	default:
		out = fmt.Sprintf("%v v%X", ins.Op, ins.X)
	}
	return
}

// Decode maps a raw instruction word to exactly one Instruction variant.
// Decoding is total: every word yields either a valid Instruction or an
// ErrOpcode describing the unassigned bit pattern.
func Decode(word Opcode) (ins Instruction, err error) {
	ins = Instruction{
		Word: word,
		X:    word.X(),
		Y:    word.Y(),
		N:    word.N(),
		NN:   word.NN(),
		NNN:  word.NNN(),
	}

	bad := func() {
		ins = Instruction{}
		err = ErrOpcode{Word: word}
	}

	switch word.Family() {
	case 0x0:
		// The machine-code call 0NNN is kept as an explicit no-op.
		switch word.NN() {
		case 0xE0:
			ins.Op = OP_CLS
		case 0xEE:
			ins.Op = OP_RET
		default:
			ins.Op = OP_SYS
		}
	case 0x1:
		ins.Op = OP_JP
	case 0x2:
		ins.Op = OP_CALL
	case 0x3:
		ins.Op = OP_SE
	case 0x4:
		ins.Op = OP_SNE
	case 0x5:
		if word.N() != 0 {
			bad()
			return
		}
		ins.Op = OP_SEV
	case 0x6:
		ins.Op = OP_LD
	case 0x7:
		ins.Op = OP_ADD
	case 0x8:
		switch word.N() {
		case 0x0:
			ins.Op = OP_LDV
		case 0x1:
			ins.Op = OP_OR
		case 0x2:
			ins.Op = OP_AND
		case 0x3:
			ins.Op = OP_XOR
		case 0x4:
			ins.Op = OP_ADDV
		case 0x5:
			ins.Op = OP_SUB
		case 0x6:
			ins.Op = OP_SHR
		case 0x7:
			ins.Op = OP_SUBN
		case 0xE:
			ins.Op = OP_SHL
		default:
			bad()
			return
		}
	case 0x9:
		if word.N() != 0 {
			bad()
			return
		}
		ins.Op = OP_SNEV
	case 0xA:
		ins.Op = OP_LDI
	case 0xB:
		ins.Op = OP_JPV0
	case 0xC:
		ins.Op = OP_RND
	case 0xD:
		ins.Op = OP_DRW
	case 0xE:
		switch word.NN() {
		case 0x9E:
			ins.Op = OP_SKP
		case 0xA1:
			ins.Op = OP_SKNP
		default:
			bad()
			return
		}
	case 0xF:
		switch word.NN() {
		case 0x07:
			ins.Op = OP_LDDT
		case 0x0A:
			ins.Op = OP_LDK
		case 0x15:
			ins.Op = OP_STDT
		case 0x18:
			ins.Op = OP_STST
		case 0x1E:
			ins.Op = OP_ADDI
		case 0x29:
			ins.Op = OP_FONT
		case 0x33:
			ins.Op = OP_BCD
		case 0x55:
			ins.Op = OP_SAVE
		case 0x65:
			ins.Op = OP_RESTORE
		default:
			bad()
			return
		}
	}

	return
}
