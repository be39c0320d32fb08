package microcode

import (
	"iter"

	"github.com/ezrec/bcomp/memory"
)

// Opcode is one assembled micro-instruction and its source.
type Opcode struct {
	LineNo    int
	Mip       int
	Words     []string
	Code      uint16
	LinkLabel string
}

// Program is an assembled microprogram.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int
}

// Debug returns the opcode assembled at mip, or nil.
func (prog *Program) Debug(mip uint8) (op *Opcode) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Mip == int(mip) {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Binary returns the microcode store image of the program.
// Unassembled addresses are zero.
func (prog *Program) Binary() (bins []uint16) {
	bins = make([]uint16, memory.MICRO_SIZE)
	for mip, code := range prog.Codes() {
		bins[mip] = code
	}

	return
}

// Codes iterates over the assembled words, in source order.
func (prog *Program) Codes() iter.Seq2[uint8, uint16] {
	return func(yield func(mip uint8, code uint16) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint8(op.Mip), op.Code) {
				return
			}
		}
	}
}
