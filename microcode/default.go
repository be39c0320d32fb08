package microcode

import (
	_ "embed"
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Entry micro-addresses of the console routines.
const (
	ENTRY_FETCH   = 0x00 // Instruction fetch.
	ENTRY_ADDRESS = 0x99 // Console Address.
	ENTRY_READ    = 0x9c // Console Read.
	ENTRY_WRITE   = 0xa1 // Console Write.
	ENTRY_START   = 0xa8 // Console Start.
)

// DefaultSource is the micro-assembly text of the default microprogram.
//
//go:embed bcomp.uc
var DefaultSource string

// Defines returns the entry micro-addresses as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"ENTRY_FETCH":   fmt.Sprintf("%#x", ENTRY_FETCH),
		"ENTRY_ADDRESS": fmt.Sprintf("%#x", ENTRY_ADDRESS),
		"ENTRY_READ":    fmt.Sprintf("%#x", ENTRY_READ),
		"ENTRY_WRITE":   fmt.Sprintf("%#x", ENTRY_WRITE),
		"ENTRY_START":   fmt.Sprintf("%#x", ENTRY_START),
	})
}

// Default assembles the default microprogram.
func Default() (prog *Program, err error) {
	asm := &Assembler{}
	for key, value := range Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(strings.NewReader(DefaultSource))

	return
}
