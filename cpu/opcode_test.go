package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode_Fields(t *testing.T) {
	assert := assert.New(t)

	word := Opcode(0xD47F)
	assert.Equal(uint8(0xD), word.Family())
	assert.Equal(uint8(0x4), word.X())
	assert.Equal(uint8(0x7), word.Y())
	assert.Equal(uint8(0xF), word.N())
	assert.Equal(uint8(0x7F), word.NN())
	assert.Equal(uint16(0x47F), word.NNN())
}

func TestOpcode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Opcode(0x1234), MakeNNN(0x1, 0x234))
	assert.Equal(Opcode(0x6A42), MakeXNN(0x6, 0xA, 0x42))
	assert.Equal(Opcode(0x8AB4), MakeXYN(0x8, 0xA, 0xB, 0x4))

	// Out-of-range field bits never leak into neighbors.
	assert.Equal(Opcode(0x1FFF), MakeNNN(0x1, 0xFFFF))
	assert.Equal(Opcode(0x8FF4), MakeXYN(0x8, 0xFF, 0xFF, 0x4))
}

func TestDecode_Families(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		word Opcode
		op   Op
	}{
		{0x0123, OP_SYS},
		{0x00E0, OP_CLS},
		{0x00EE, OP_RET},
		{0x1234, OP_JP},
		{0x2234, OP_CALL},
		{0x3A42, OP_SE},
		{0x4A42, OP_SNE},
		{0x5AB0, OP_SEV},
		{0x6A42, OP_LD},
		{0x7A42, OP_ADD},
		{0x8AB0, OP_LDV},
		{0x8AB1, OP_OR},
		{0x8AB2, OP_AND},
		{0x8AB3, OP_XOR},
		{0x8AB4, OP_ADDV},
		{0x8AB5, OP_SUB},
		{0x8AB6, OP_SHR},
		{0x8AB7, OP_SUBN},
		{0x8ABE, OP_SHL},
		{0x9AB0, OP_SNEV},
		{0xA234, OP_LDI},
		{0xB234, OP_JPV0},
		{0xCA42, OP_RND},
		{0xDAB4, OP_DRW},
		{0xEA9E, OP_SKP},
		{0xEAA1, OP_SKNP},
		{0xFA07, OP_LDDT},
		{0xFA0A, OP_LDK},
		{0xFA15, OP_STDT},
		{0xFA18, OP_STST},
		{0xFA1E, OP_ADDI},
		{0xFA29, OP_FONT},
		{0xFA33, OP_BCD},
		{0xFA55, OP_SAVE},
		{0xFA65, OP_RESTORE},
	} {
		ins, err := Decode(tc.word)
		assert.NoError(err, "%04x", uint16(tc.word))
		assert.Equal(tc.op, ins.Op, "%04x", uint16(tc.word))
		assert.Equal(tc.word, ins.Word)
	}
}

func TestDecode_Operands(t *testing.T) {
	assert := assert.New(t)

	ins, err := Decode(0xD47F)
	assert.NoError(err)
	assert.Equal(OP_DRW, ins.Op)
	assert.Equal(uint8(0x4), ins.X)
	assert.Equal(uint8(0x7), ins.Y)
	assert.Equal(uint8(0xF), ins.N)

	ins, err = Decode(0x6A42)
	assert.NoError(err)
	assert.Equal(uint8(0xA), ins.X)
	assert.Equal(uint8(0x42), ins.NN)

	ins, err = Decode(0xA7FE)
	assert.NoError(err)
	assert.Equal(uint16(0x7FE), ins.NNN)
}

func TestDecode_Unknown(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []Opcode{
		0x5AB1, // 5XYN, N != 0
		0x8AB8, // unassigned 8XYN sub-opcode
		0x8ABF,
		0x9AB3, // 9XYN, N != 0
		0xEA00, // unassigned EXNN sub-opcode
		0xEAFF,
		0xFA00, // unassigned FXNN sub-opcode
		0xFA66,
		0xFAFF,
	} {
		_, err := Decode(word)
		assert.Error(err, "%04x", uint16(word))
		assert.True(errors.Is(err, ErrOpcode{}), "%04x", uint16(word))

		var eo ErrOpcode
		assert.True(errors.As(err, &eo))
		assert.Equal(word, eo.Word)
	}
}

func TestInstruction_String(t *testing.T) {
	assert := assert.New(t)

	ins, err := Decode(0x1234)
	assert.NoError(err)
	assert.Equal("jp 0x234", ins.String())

	ins, err = Decode(0x8AB4)
	assert.NoError(err)
	assert.Equal("addv vA, vB", ins.String())

	ins, err = Decode(0xD47F)
	assert.NoError(err)
	assert.Equal("drw v4, v7, 15", ins.String())

	ins, err = Decode(0x00E0)
	assert.NoError(err)
	assert.Equal("cls", ins.String())
}
