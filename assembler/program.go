package assembler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ezrec/bcomp/memory"
)

// Word is one assembled word of main memory and its source.
type Word struct {
	LineNo    int      // Source line number.
	Addr      uint16   // Main memory address.
	Words     []string // Source words.
	Code      uint16   // Assembled value.
	LinkLabel string   // Label linked into the value, if any.
	Data      bool     // Assembled by WORD, not an instruction.

	linkMask uint16
}

// Program is an assembled Basic Computer program.
type Program struct {
	Words []Word
	Label map[string]uint16

	begin     uint16
	arguments []string
}

// Load writes the program into main memory.
func (prog *Program) Load(mem *memory.Memory) {
	for _, word := range prog.Words {
		mem.WriteMain(uint32(word.Addr), word.Code)
	}
}

// LabelAddress returns the address of a label.
func (prog *Program) LabelAddress(name string) (addr uint16, err error) {
	addr, ok := prog.Label[strings.ToUpper(name)]
	if !ok {
		err = ErrLabelMissing(name)
	}

	return
}

// BeginAddress returns the address of the BEGIN label, or of the first
// assembled word if there is no such label.
func (prog *Program) BeginAddress() uint16 {
	return prog.begin
}

// ArgumentNames returns the labels of WORD ? cells, in source order.
func (prog *Program) ArgumentNames() []string {
	return slices.Clone(prog.arguments)
}

// Text returns the assembly text of the word.
func (word *Word) Text() string {
	if word.Data {
		return fmt.Sprintf("WORD %04X", word.Code)
	}
	return Disassemble(word.Code)
}

// Debug returns the word assembled at addr, or nil.
func (prog *Program) Debug(addr uint16) (word *Word) {
	for n := range prog.Words {
		if prog.Words[n].Addr == addr {
			word = &prog.Words[n]
			break
		}
	}

	return
}
