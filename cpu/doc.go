// Package cpu implements the control unit and data path of the Basic Computer.
//
// The CPU fetches one micro-instruction per Step from the microcode store,
// performs at most one register transfer through the ALU, and selects the
// next micro-address. Every ALU result is latched into BR. The status flags
// follow the accumulator, and the run switch is sampled into STATE at the
// start of every step.
package cpu
