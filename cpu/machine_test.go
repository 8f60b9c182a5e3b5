package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMachine(t *testing.T) (m *Machine) {
	m, err := NewMachine(Config{})
	assert.NoError(t, err)
	return
}

func TestNewMachine(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMachine(Config{})
	assert.NoError(err)
	assert.Equal(uint16(PROGRAM_OFFSET), m.PC)
	assert.Equal(-1, m.WaitReg)
	assert.False(m.Waiting())
}

func TestNewMachine_BadRate(t *testing.T) {
	assert := assert.New(t)

	_, err := NewMachine(Config{CyclesPerSecond: -1})
	assert.ErrorIs(err, ErrConfigRate)

	// Rates past one cycle per nanosecond leave no representable
	// ticker interval.
	_, err = NewMachine(Config{CyclesPerSecond: 2_000_000_000})
	assert.ErrorIs(err, ErrConfigRate)

	_, err = NewMachine(Config{CyclesPerSecond: int(time.Second)})
	assert.NoError(err)
}

func TestMachine_Reset_Glyphs(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	assert.Equal(glyphs[:], m.Memory[GLYPH_OFFSET:GLYPH_OFFSET+len(glyphs)])

	// Glyph for "0" starts with a full top row.
	assert.Equal(uint8(0xF0), m.Memory[GLYPH_OFFSET])
}

func TestMachine_LoadRom(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	err := m.LoadRom(bytes.NewReader([]byte{0x60, 0x05, 0x12, 0x00}))
	assert.NoError(err)

	assert.Equal(uint16(PROGRAM_OFFSET), m.PC)
	assert.Equal(uint8(0x60), m.Memory[PROGRAM_OFFSET])
	assert.Equal(uint8(0x05), m.Memory[PROGRAM_OFFSET+1])
	assert.Equal(uint8(0x12), m.Memory[PROGRAM_OFFSET+2])
}

func TestMachine_LoadRom_TooLarge(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	image := make([]byte, MEMORY_SIZE-PROGRAM_OFFSET+1)
	err := m.LoadRom(bytes.NewReader(image))
	assert.ErrorIs(err, ErrRomSize)

	// A full-size image is accepted.
	err = m.LoadRom(bytes.NewReader(image[:MEMORY_SIZE-PROGRAM_OFFSET]))
	assert.NoError(err)
}

func TestMachine_Step_Advance(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	loadWords(m, MakeXNN(0x6, 0x0, 0x05)) // ld v0, 5

	err := m.Step()
	assert.NoError(err)
	assert.Equal(uint8(5), m.V[0])
	assert.Equal(uint16(PROGRAM_OFFSET+2), m.PC)
}

func TestMachine_Step_Skip(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	m.V[3] = 0x42
	loadWords(m, MakeXNN(0x3, 0x3, 0x42)) // se v3, 0x42

	err := m.Step()
	assert.NoError(err)
	assert.Equal(uint16(PROGRAM_OFFSET+4), m.PC)
}

func TestMachine_Step_FetchBounds(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	m.PC = MEMORY_SIZE - 1
	err := m.Step()
	assert.ErrorIs(err, ErrFetchBounds)

	m.PC = MEMORY_SIZE - 2
	err = m.Step()
	assert.NoError(err) // last addressable instruction word
}

func TestMachine_Step_DecodeFailure(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	loadWords(m, Opcode(0xFAFF))

	err := m.Step()
	assert.Error(err)
	assert.True(errors.Is(err, ErrOpcode{}))

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(Opcode(0xFAFF), eo.Word)
	assert.Equal(uint16(PROGRAM_OFFSET), eo.Pc)

	// No state was disturbed.
	assert.Equal(uint16(PROGRAM_OFFSET), m.PC)
}

func TestMachine_TimerTick(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	m.Delay = 2
	m.Sound = 1

	m.TimerTick()
	assert.Equal(uint8(1), m.Delay)
	assert.Equal(uint8(0), m.Sound)

	m.TimerTick()
	assert.Equal(uint8(0), m.Delay)
	assert.Equal(uint8(0), m.Sound)

	// Floors at zero.
	m.TimerTick()
	assert.Equal(uint8(0), m.Delay)
	assert.Equal(uint8(0), m.Sound)
}

func TestMachine_TimerTick_Monotonic(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	for _, tc := range []struct {
		initial uint8
		ticks   int
		want    uint8
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 3, 2},
		{5, 5, 0},
		{5, 100, 0},
		{255, 255, 0},
	} {
		m.Delay = tc.initial
		for n := 0; n < tc.ticks; n++ {
			m.TimerTick()
		}
		assert.Equal(tc.want, m.Delay, "%v ticks from %v", tc.ticks, tc.initial)
	}
}

func TestMachine_Seed(t *testing.T) {
	assert := assert.New(t)

	a := newTestMachine(t)
	b := newTestMachine(t)
	a.Seed(42)
	b.Seed(42)

	ra, err := a.Execute(Instruction{Op: OP_RND, X: 0, NN: 0xFF})
	assert.NoError(err)
	assert.Equal(SIG_NEXT, ra)

	_, err = b.Execute(Instruction{Op: OP_RND, X: 0, NN: 0xFF})
	assert.NoError(err)
	assert.Equal(a.V[0], b.V[0])
}

func TestMachine_String(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t)
	m.V[0xA] = 0x42

	text := m.String()
	assert.True(strings.Contains(text, "pc: 200"))
	assert.True(strings.Contains(text, "vA: 42"))
	assert.True(strings.Contains(text, "stack: ---"))
}

// loadWords writes a program into memory at the load offset without
// going through LoadRom.
func loadWords(m *Machine, words ...Opcode) {
	addr := PROGRAM_OFFSET
	for _, word := range words {
		m.Memory[addr] = uint8(word >> 8)
		m.Memory[addr+1] = uint8(word)
		addr += 2
	}
}
