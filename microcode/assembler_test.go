package microcode

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bcomp/memory"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%#v", memory.MICRO_SIZE), asm.Equate["MICRO_SIZE"])
	assert.Equal(fmt.Sprintf("%#v", ADDR_MASK), asm.Equate["ADDR_MASK"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".equ DEV 3",
		"start: mov ar ip   ; fetch",
		"  read",
		"  add ip ip 0 inc",
		"  test ir 15",
		"  if !t start",
		"  io out DEV clear",
		"  io tsf ir",
		"  shr ac ac rot",
		"  jump end",
		"  .org 0x10",
		"end: halt start",
		"  if run end halt",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	expected := []Opcode{
		{2, 0x00, []string{"mov", "ar", "ip"}, 0x2c14, ""},
		{3, 0x01, []string{"read"}, 0x3900, ""},
		{4, 0x02, []string{"add", "ip", "ip", "0", "inc"}, 0x0411, ""},
		{5, 0x03, []string{"test", "ir", "15"}, 0x3b6f, ""},
		{6, 0x04, []string{"if", "!t", "start"}, 0x5003, ""},
		{7, 0x05, []string{"io", "out", "3", "clear"}, 0x3ce3, ""},
		{8, 0x06, []string{"io", "tsf", "ir"}, 0x3c50, ""},
		{9, 0x07, []string{"shr", "ac", "ac", "rot"}, 0x3107, ""},
		{10, 0x08, []string{"jump", "end"}, 0x8100, "end"},
		{12, 0x10, []string{"halt", "start"}, 0x400e, ""},
		{13, 0x11, []string{"if", "run", "end", "halt"}, 0x410d, ""},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal(map[string]int{"start": 0x00, "end": 0x10}, prog.Label)

	bins := prog.Binary()
	assert.Equal(memory.MICRO_SIZE, len(bins))
	assert.Equal(uint16(0x8100), bins[0x08])
	assert.Equal(uint16(0x0000), bins[0x09])
	assert.Equal(uint16(0x400e), bins[0x10])

	dbg := prog.Debug(0x11)
	if assert.NotNil(dbg) {
		assert.Equal(13, dbg.LineNo)
	}
	assert.Nil(prog.Debug(0x09))

	// The disassembly of each word reassembles to the same word.
	for _, op := range prog.Opcodes {
		text := Decode(op.Code).String()
		again, err := (&Assembler{}).Parse(strings.NewReader(text))
		if assert.NoError(err, text) && assert.Len(again.Opcodes, 1) {
			assert.Equal(op.Code, again.Opcodes[0].Code, text)
		}
	}
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("ENTRY", "0x20")

	program := []string{
		".equ BIT_MAX 16",
		".macro skipbit REG BIT",
		"   test REG BIT",
		"   if t @skip",
		"   nop",
		"@skip:",
		".endm",
		"   .org ENTRY",
		"   skipbit ir 3",
		"   skipbit dr $(BIT_MAX - 1)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	bins := prog.Binary()
	assert.Equal(MakeTest(SRC_IR, 3), bins[0x20])
	assert.Equal(MakeCond(FLAG_T, false, 0x23, false), bins[0x21])
	assert.Equal(MakeSys(SYS_NOP, 0), bins[0x22])
	assert.Equal(MakeTest(SRC_DR, 15), bins[0x23])
	assert.Equal(MakeCond(FLAG_T, false, 0x26, false), bins[0x24])
	assert.Equal(6, len(prog.Opcodes))

	// Expressions only see equates defined before them.
	program = append(program[1:], program[0])
	_, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.Error(err)
}

func TestAssemblerWord(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(".word 0xc123\n.word $(0x4000 | 6 | 8)\nhalt"))
	if !assert.NoError(err) {
		return
	}

	bins := prog.Binary()
	assert.Equal(uint16(0xc123), bins[0])
	assert.Equal(uint16(0x400e), bins[1])
	assert.Equal(MakeHalt(0), bins[2])
}

func TestAssemblerErrors(t *testing.T) {
	table := [](struct {
		text string
		err  error
	}){
		{"frob", ErrInstructionInvalid},
		{"add ac ac", ErrOpcodeValueMissing},
		{"add ac ac dr inc carry borrow", ErrOpcodeExtraArgs},
		{"add pc ac dr", ErrTargetInvalid},
		{"add ac mip dr", ErrSourceInvalid},
		{"add ac ac dr borrow", ErrModifierInvalid},
		{"mov ac dr rot", ErrModifierInvalid},
		{"shl ac dr ~", ErrModifierInvalid},
		{"test ir 16", ErrBitInvalid},
		{"test ir x", ErrParseNumber("x")},
		{"io out 16", ErrDeviceInvalid},
		{"io put 1", ErrOpcodeInvalid},
		{"io out 1 now", ErrModifierInvalid},
		{"if q 0", ErrFlagInvalid},
		{"if z 0 stop", ErrModifierInvalid},
		{"jump 0x100", ErrAddressInvalid},
		{"jump nowhere", ErrLabelMissing("nowhere")},
		{"read extra", ErrOpcodeExtraArgs},
		{".org 0x100", ErrOrgInvalid},
		{".org", ErrOrgSyntax},
		{".org 0xff\nnop\nnop", ErrAddressInvalid},
		{"nop\n.org 0\nnop", ErrAddressOverlap},
		{"a: nop\na: nop", ErrLabelDuplicate},
		{".equ A 1\n.equ A 2", ErrEquateDuplicate},
		{".equ A", ErrEquateSyntax},
		{".macro m\n.macro n", ErrMacroNesting},
		{".macro m\n.endm\n.macro m\n.endm", ErrMacroDuplicate},
		{".macro m", ErrMacroLonely},
		{".endm", ErrMacroLonelyEndm},
		{".macro m A\nnop\n.endm\nm", ErrMacroSyntax},
		{".macro m\nfrob\n.endm\nm", ErrInstructionInvalid},
		{"test ir $(1 +)", nil},
	}

	for _, entry := range table {
		t.Run(entry.text, func(t *testing.T) {
			assert := assert.New(t)

			asm := &Assembler{}
			_, err := asm.Parse(strings.NewReader(entry.text))
			if !assert.Error(err) {
				return
			}

			var syntax *ErrSyntax
			assert.True(errors.As(err, &syntax))

			if entry.err != nil {
				assert.ErrorIs(err, entry.err)
			}
		})
	}
}
