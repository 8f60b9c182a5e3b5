package cpu

import (
	"log"
)

// Signal tells the execution loop how the program counter should advance
// after an instruction executes.
type Signal int

//go:generate go tool stringer -linecomment -type=Signal
const (
	SIG_NEXT = Signal(iota) // next
	SIG_SKIP                // skip
	SIG_JUMP                // jump
	SIG_WAIT                // wait
)

// addWrap returns a+b modulo 256 and the carry flag (1 when the sum
// overflowed 8 bits, else 0).
func addWrap(a, b uint8) (res, flag uint8) {
	sum := uint16(a) + uint16(b)
	res = uint8(sum)
	if sum > 0xFF {
		flag = 1
	}
	return
}

// subWrap returns a-b modulo 256 and the no-borrow flag (1 when no
// borrow occurred, else 0).
func subWrap(a, b uint8) (res, flag uint8) {
	res = a - b
	if a >= b {
		flag = 1
	}
	return
}

// Execute applies a single decoded instruction to the machine state and
// reports how the program counter should advance. The flags register is
// always written last, so vF as a destination ends up holding the flag.
func (m *Machine) Execute(ins Instruction) (sig Signal, err error) {
	if m.Verbose {
		log.Printf("%03x: %v", m.PC, ins)
	}

	switch ins.Op {
	case OP_SYS:
		// Machine-code call on the original hardware; ignored.

	case OP_CLS:
		for y := range m.Pixels {
			clear(m.Pixels[y][:])
		}

	case OP_RET:
		addr, ok := m.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		m.PC = addr
		sig = SIG_JUMP

	case OP_JP:
		m.PC = ins.NNN
		sig = SIG_JUMP

	case OP_JPV0:
		m.PC = (ins.NNN + uint16(m.V[0])) & ADDRESS_MASK
		sig = SIG_JUMP

	case OP_CALL:
		if m.Stack.Full() {
			err = ErrStackFull
			return
		}
		m.Stack.Push(m.PC + 2)
		m.PC = ins.NNN
		sig = SIG_JUMP

	case OP_SE:
		if m.V[ins.X] == ins.NN {
			sig = SIG_SKIP
		}

	case OP_SNE:
		if m.V[ins.X] != ins.NN {
			sig = SIG_SKIP
		}

	case OP_SEV:
		if m.V[ins.X] == m.V[ins.Y] {
			sig = SIG_SKIP
		}

	case OP_SNEV:
		if m.V[ins.X] != m.V[ins.Y] {
			sig = SIG_SKIP
		}

	case OP_LD:
		m.V[ins.X] = ins.NN

	case OP_ADD:
		res, flag := addWrap(m.V[ins.X], ins.NN)
		m.V[ins.X] = res
		m.V[FLAG_REGISTER] = flag

	case OP_LDV:
		m.V[ins.X] = m.V[ins.Y]

	case OP_OR:
		m.V[ins.X] |= m.V[ins.Y]

	case OP_AND:
		m.V[ins.X] &= m.V[ins.Y]

	case OP_XOR:
		m.V[ins.X] ^= m.V[ins.Y]

	case OP_ADDV:
		res, flag := addWrap(m.V[ins.X], m.V[ins.Y])
		m.V[ins.X] = res
		m.V[FLAG_REGISTER] = flag

	case OP_SUB:
		res, flag := subWrap(m.V[ins.X], m.V[ins.Y])
		m.V[ins.X] = res
		m.V[FLAG_REGISTER] = flag

	case OP_SUBN:
		res, flag := subWrap(m.V[ins.Y], m.V[ins.X])
		m.V[ins.X] = res
		m.V[FLAG_REGISTER] = flag

	case OP_SHR:
		val := m.V[ins.X]
		if m.config.Quirks.ShiftUsesVy {
			val = m.V[ins.Y]
		}
		m.V[ins.X] = val >> 1
		m.V[FLAG_REGISTER] = val & 1

	case OP_SHL:
		val := m.V[ins.X]
		if m.config.Quirks.ShiftUsesVy {
			val = m.V[ins.Y]
		}
		m.V[ins.X] = val << 1
		m.V[FLAG_REGISTER] = val >> 7

	case OP_LDI:
		m.I = ins.NNN

	case OP_ADDI:
		m.I = (m.I + uint16(m.V[ins.X])) & ADDRESS_MASK

	case OP_RND:
		m.V[ins.X] = uint8(m.rand.Intn(256)) & ins.NN

	case OP_DRW:
		m.draw(ins.X, ins.Y, ins.N)

	case OP_SKP:
		if m.Keys[m.V[ins.X]&0xF] {
			sig = SIG_SKIP
		}

	case OP_SKNP:
		if !m.Keys[m.V[ins.X]&0xF] {
			sig = SIG_SKIP
		}

	case OP_LDDT:
		m.V[ins.X] = m.Delay

	case OP_STDT:
		m.Delay = m.V[ins.X]

	case OP_STST:
		m.Sound = m.V[ins.X]

	case OP_LDK:
		m.WaitReg = int(ins.X)
		sig = SIG_WAIT

	case OP_FONT:
		m.I = GLYPH_OFFSET + GLYPH_HEIGHT*uint16(m.V[ins.X]&0xF)

	case OP_BCD:
		val := m.V[ins.X]
		m.Memory[m.I&ADDRESS_MASK] = val / 100
		m.Memory[(m.I+1)&ADDRESS_MASK] = (val / 10) % 10
		m.Memory[(m.I+2)&ADDRESS_MASK] = val % 10

	case OP_SAVE:
		for n := uint16(0); n <= uint16(ins.X); n++ {
			m.Memory[(m.I+n)&ADDRESS_MASK] = m.V[n]
		}
		if m.config.Quirks.IncrementI {
			m.I = (m.I + uint16(ins.X) + 1) & ADDRESS_MASK
		}

	case OP_RESTORE:
		for n := uint16(0); n <= uint16(ins.X); n++ {
			m.V[n] = m.Memory[(m.I+n)&ADDRESS_MASK]
		}
		if m.config.Quirks.IncrementI {
			m.I = (m.I + uint16(ins.X) + 1) & ADDRESS_MASK
		}

	default:
		err = ErrOpcode{Word: ins.Word, Pc: m.PC}
	}

	return
}

// draw XORs a variable-height sprite read from memory at the address
// register onto the framebuffer at (vX, vY), wrapping on both axes, and
// records the collision flag.
func (m *Machine) draw(x, y, height uint8) {
	vx := int(m.V[x])
	vy := int(m.V[y])

	var collision uint8
	for row := 0; row < int(height); row++ {
		py := (vy + row) % DISPLAY_HEIGHT
		bits := m.Memory[(m.I+uint16(row))&ADDRESS_MASK]
		for col := 0; col < SPRITE_WIDTH; col++ {
			px := (vx + col) % DISPLAY_WIDTH
			bit := (bits >> (7 - col)) & 1
			if bit == 1 && m.Pixels[py][px] == 1 {
				collision = 1
			}
			m.Pixels[py][px] ^= bit
		}
	}

	m.V[FLAG_REGISTER] = collision
}
