// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package register implements the register bank of the Basic Computer.
//
// The bank is a closed set of registers, each with a fixed bit width.
// Every write is masked to the width of the register, so a read never
// returns more bits than the register holds.
package register

import (
	"fmt"
	"iter"
)

// ID identifies a single register of the bank.
type ID int

//go:generate go tool stringer -linecomment -type=ID
const (
	AC    = ID(0) // ac
	BR    = ID(1) // br
	DR    = ID(2) // dr
	AR    = ID(3) // ar
	IP    = ID(4) // ip
	IR    = ID(5) // ir
	STATE = ID(6) // state
	KEY   = ID(7) // key
	MIP   = ID(8) // mip
	MI    = ID(9) // mi
)

// COUNT is the number of registers in the bank.
const COUNT = 10

// Bit widths, indexed by ID.
var _width = [COUNT]uint{
	AC:    16, // Accumulator.
	BR:    20, // Buffer register (ALU output latch).
	DR:    16, // Data register.
	AR:    12, // Address register.
	IP:    12, // Instruction pointer.
	IR:    16, // Instruction register.
	STATE: 16, // State/flags register.
	KEY:   16, // Console key register.
	MIP:   8,  // Micro-instruction pointer.
	MI:    16, // Micro-instruction register.
}

// Valid returns true if the ID names a register of the bank.
func (id ID) Valid() bool {
	return id >= 0 && id < COUNT
}

// Width returns the width of the register in bits.
func (id ID) Width() uint {
	if !id.Valid() {
		return 0
	}
	return _width[id]
}

// Mask returns the mask of the valid bits of the register.
func (id ID) Mask() uint32 {
	return (uint32(1) << id.Width()) - 1
}

// Digits returns the number of hex digits needed to display the register.
func (id ID) Digits() int {
	return int(id.Width()+3) / 4
}

// Bank is the register bank.
//
// The bank itself is not synchronized; the emulator guarantees a single
// writer at a time.
type Bank struct {
	value [COUNT]uint32
}

// Read returns the current value of a register.
func (bank *Bank) Read(id ID) (value uint32) {
	if !id.Valid() {
		return
	}

	value = bank.value[id]
	return
}

// Write sets a register, masking the value to the register width.
func (bank *Bank) Write(id ID, value uint32) {
	if !id.Valid() {
		return
	}

	bank.value[id] = value & id.Mask()
}

// Reset clears all registers.
func (bank *Bank) Reset() {
	clear(bank.value[:])
}

// All returns an iterator over every register and its value.
func (bank *Bank) All() iter.Seq2[ID, uint32] {
	return func(yield func(id ID, value uint32) bool) {
		for n := range bank.value {
			if !yield(ID(n), bank.value[n]) {
				return
			}
		}
	}
}

// String returns the register bank as text, one register per line.
func (bank *Bank) String() (text string) {
	for id, value := range bank.All() {
		text += fmt.Sprintf("% 5s: %0*X\n", id.String(), id.Digits(), value)
	}

	return
}
