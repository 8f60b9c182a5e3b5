package cpu

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"
)

const (
	MEMORY_SIZE    = 4096  // Bytes of addressable memory.
	ADDRESS_MASK   = 0xFFF // All address arithmetic wraps into this range.
	REGISTER_COUNT = 16    // General purpose registers v0-vF.
	FLAG_REGISTER  = 0xF   // vF holds carry/borrow/collision flags.
	PROGRAM_OFFSET = 0x200 // Load address for program images.
	KEY_COUNT      = 16    // Keys on the input pad.

	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
	SPRITE_WIDTH   = 8

	GLYPH_OFFSET = 0x000 // Digit glyph table base address.
	GLYPH_HEIGHT = 5     // Rows per digit glyph.
)

// glyphs is the built-in sprite table for the hexadecimal digits 0-F,
// one bit row per byte, copied into low memory on reset.
var glyphs = [16 * GLYPH_HEIGHT]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Quirks selects between documented behavioral variants of the
// instruction set that historical interpreters disagree on.
type Quirks struct {
	// ShiftUsesVy shifts the value of vY into vX (the original
	// interpreter) instead of shifting vX in place.
	ShiftUsesVy bool
	// IncrementI advances the address register past the transferred
	// block after a register save/restore (the original interpreter)
	// instead of leaving it unchanged.
	IncrementI bool
}

// Config is the construction-time configuration for a Machine. It is
// not mutable once a cycle has executed.
type Config struct {
	Quirks Quirks
	// CyclesPerSecond throttles the instruction cadence when positive.
	// Zero runs unthrottled. Negative rates, and rates too high to
	// yield a whole-nanosecond cycle interval, are rejected.
	CyclesPerSecond int
}

// Machine is the complete mutable state of the interpreter. No other
// component holds overlapping ownership of any of its fields.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory [MEMORY_SIZE]byte
	V      [REGISTER_COUNT]uint8 // General purpose registers.
	I      uint16                // Address register.
	PC     uint16                // Program counter.
	Stack  Stack                 // Subroutine return stack.
	Delay  uint8                 // Delay timer, decremented at 60 Hz.
	Sound  uint8                 // Sound timer, decremented at 60 Hz.

	// Pixels is the framebuffer bit grid, row major, 1 = lit.
	Pixels [DISPLAY_HEIGHT][DISPLAY_WIDTH]uint8

	// Keys is the pad snapshot, written only between cycles.
	Keys [KEY_COUNT]bool

	// WaitReg is the register index awaiting a key press, or -1.
	WaitReg int

	config Config
	rand   *rand.Rand
}

// NewMachine creates a machine in its power-on state. Malformed
// configuration is rejected here, before any cycle executes.
func NewMachine(config Config) (m *Machine, err error) {
	if config.CyclesPerSecond < 0 || config.CyclesPerSecond > int(time.Second) {
		err = ErrConfigRate
		return
	}

	m = &Machine{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.Reset()

	return
}

// Config returns the construction-time configuration.
func (m *Machine) Config() Config {
	return m.config
}

// Seed re-seeds the random source used by the rnd instruction.
func (m *Machine) Seed(seed int64) {
	m.rand = rand.New(rand.NewSource(seed))
}

// Reset restores the power-on state: registers, timers, framebuffer and
// stack cleared, glyph table installed, program counter at the load
// offset. Loaded program bytes are cleared as well.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	clear(m.Memory[:])
	clear(m.V[:])
	m.Stack.Reset()
	m.I = 0
	m.PC = PROGRAM_OFFSET
	m.Delay = 0
	m.Sound = 0
	m.WaitReg = -1

	for y := range m.Pixels {
		clear(m.Pixels[y][:])
	}
	clear(m.Keys[:])

	copy(m.Memory[GLYPH_OFFSET:], glyphs[:])
}

// LoadRom resets the machine and copies a program image into memory at
// the load offset. The byte stream is trusted as-is: no header, no
// checksum. Images that do not fit above the load offset are rejected.
func (m *Machine) LoadRom(reader io.Reader) (err error) {
	m.Reset()

	data, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	if len(data) > MEMORY_SIZE-PROGRAM_OFFSET {
		err = ErrRomSize
		return
	}

	copy(m.Memory[PROGRAM_OFFSET:], data)

	if m.Verbose {
		log.Printf("machine: loaded %v byte image", len(data))
	}

	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text = fmt.Sprintf("   pc: %03X\n    i: %03X\n", m.PC, m.I)
	for n, val := range m.V {
		text += fmt.Sprintf("   v%X: %02X\n", n, val)
	}

	var strval string
	val, ok := m.Stack.Peek()
	if ok {
		strval = fmt.Sprintf("%03X (depth %v)", val, len(m.Stack.Data))
	} else {
		strval = "---"
	}
	text += fmt.Sprintf("stack: %v\n", strval)
	text += fmt.Sprintf("   dt: %02X\n   st: %02X\n", m.Delay, m.Sound)

	return
}

// fetch reads the two instruction bytes at the program counter.
func (m *Machine) fetch() (word Opcode, err error) {
	if m.PC > MEMORY_SIZE-2 {
		err = ErrFetchBounds
		return
	}

	word = Opcode(uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1]))
	return
}

// Step performs a single fetch-decode-execute cycle and advances the
// program counter per the executed instruction's signal. A wait-for-key
// instruction leaves the counter on itself; the wait is resolved by
// ResolveKey. Any returned error leaves the machine unfit to continue.
func (m *Machine) Step() (err error) {
	word, err := m.fetch()
	if err != nil {
		return
	}

	ins, err := Decode(word)
	if err != nil {
		if eo, ok := err.(ErrOpcode); ok {
			eo.Pc = m.PC
			err = eo
		}
		return
	}

	sig, err := m.Execute(ins)
	if err != nil {
		return
	}

	switch sig {
	case SIG_NEXT:
		m.PC += 2
	case SIG_SKIP:
		m.PC += 4
	case SIG_JUMP, SIG_WAIT:
		// Program counter already placed, or pinned to the waiting
		// instruction until ResolveKey.
	}

	return
}

// TimerTick applies one 60 Hz decrement to the delay and sound timers.
// Tick cadence is independent of the instruction cycle cadence.
func (m *Machine) TimerTick() {
	if m.Delay > 0 {
		m.Delay--
	}
	if m.Sound > 0 {
		m.Sound--
	}
}

// Waiting reports whether a wait-for-key instruction has suspended the
// machine.
func (m *Machine) Waiting() bool {
	return m.WaitReg >= 0
}

// ResolveKey completes a pending wait-for-key: the pressed key's index
// is written to the waiting register and the program counter moves past
// the wait instruction. It is a no-op if the machine is not waiting.
func (m *Machine) ResolveKey(key uint8) {
	if !m.Waiting() {
		return
	}

	m.V[m.WaitReg] = key & 0xF
	m.WaitReg = -1
	m.PC += 2

	if m.Verbose {
		log.Printf("machine: wait resolved by key %X", key&0xF)
	}
}
