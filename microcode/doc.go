// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package microcode defines the micro-instruction word of the Basic Computer,
// along with a micro-assembler and the default microprogram.
//
// A micro-instruction is a single 16-bit word. Bits 15-14 select the control
// transfer: sequential operation, conditional branch or halt, unconditional
// jump, or reserved. Only sequential words drive the data path.
package microcode
