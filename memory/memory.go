// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the main memory and the microcode store.
package memory

import (
	"iter"
)

const (
	MAIN_SIZE  = 4096 // Words of main memory (12-bit address space).
	MICRO_SIZE = 256  // Words of microcode store (8-bit address space).
)

// Memory holds both stores. Addresses are masked to the store size, so
// out-of-range accesses wrap instead of failing.
type Memory struct {
	Main  [MAIN_SIZE]uint16  // Main memory.
	Micro [MICRO_SIZE]uint16 // Microcode store.

	// Watch, if set, is called after every main memory write.
	Watch func(addr uint16, value uint16)
}

// ReadMain reads a word of main memory.
func (mem *Memory) ReadMain(addr uint32) uint16 {
	return mem.Main[addr%MAIN_SIZE]
}

// WriteMain writes a word of main memory.
func (mem *Memory) WriteMain(addr uint32, value uint16) {
	addr %= MAIN_SIZE
	mem.Main[addr] = value
	if mem.Watch != nil {
		mem.Watch(uint16(addr), value)
	}
}

// ReadMicro reads a word of the microcode store.
func (mem *Memory) ReadMicro(addr uint32) uint16 {
	return mem.Micro[addr%MICRO_SIZE]
}

// WriteMicro writes a word of the microcode store.
func (mem *Memory) WriteMicro(addr uint32, value uint16) {
	mem.Micro[addr%MICRO_SIZE] = value
}

// LoadMain copies words into main memory starting at origin.
func (mem *Memory) LoadMain(origin uint32, words []uint16) {
	for n, word := range words {
		mem.Main[(origin+uint32(n))%MAIN_SIZE] = word
	}
}

// LoadMicro replaces the microcode store. Words past the image are zeroed.
func (mem *Memory) LoadMicro(words []uint16) {
	clear(mem.Micro[:])
	copy(mem.Micro[:], words)
}

// Reset zeros main memory. The microcode store is left intact.
func (mem *Memory) Reset() {
	clear(mem.Main[:])
}

// MainRange returns an iterator over count words of main memory,
// starting at addr and wrapping at the end of the store.
func (mem *Memory) MainRange(addr uint32, count int) iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, value uint16) bool) {
		for n := range count {
			at := (addr + uint32(n)) % MAIN_SIZE
			if !yield(uint16(at), mem.Main[at]) {
				return
			}
		}
	}
}
