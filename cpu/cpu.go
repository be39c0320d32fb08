// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"sync/atomic"

	"github.com/ezrec/bcomp/io"
	"github.com/ezrec/bcomp/memory"
	"github.com/ezrec/bcomp/microcode"
	"github.com/ezrec/bcomp/register"
)

// STATE register bits.
const (
	STATE_C     = uint16(1 << 0) // Carry
	STATE_Z     = uint16(1 << 1) // Zero
	STATE_N     = uint16(1 << 2) // Negative
	STATE_T     = uint16(1 << 3) // Bit test latch
	STATE_F     = uint16(1 << 4) // Device ready latch
	STATE_RUN   = uint16(1 << 5) // Run mode
	STATE_FLAGS = STATE_C | STATE_Z | STATE_N | STATE_T | STATE_F
)

var _cpu_defines = map[string]string{
	"STATE_C":   fmt.Sprintf("%#x", STATE_C),
	"STATE_Z":   fmt.Sprintf("%#x", STATE_Z),
	"STATE_N":   fmt.Sprintf("%#x", STATE_N),
	"STATE_T":   fmt.Sprintf("%#x", STATE_T),
	"STATE_F":   fmt.Sprintf("%#x", STATE_F),
	"STATE_RUN": fmt.Sprintf("%#x", STATE_RUN),
}

// StepOutcome is the result of a single micro-step.
type StepOutcome int

//go:generate go tool stringer -linecomment -type=StepOutcome
const (
	CONTINUE            = StepOutcome(0) // continue
	HALT_RETURN_TO_IDLE = StepOutcome(1) // halt
)

// Cpu is the simulation context of the Basic Computer processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register register.Bank // Register bank.
	Memory   *memory.Memory // Main and microcode stores.
	Bus      *io.Bus        // I/O controllers.

	Ticks uint64 // Micro-steps executed since reset.

	run     atomic.Bool   // Run switch.
	counter atomic.Uint64 // Run switch toggles.
}

// NewCpu creates a new CPU with empty stores and an idle bus.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: &memory.Memory{},
		Bus:    &io.Bus{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the registers and the tick counter.
// Memory, the bus, and the run switch are untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.Ticks = 0
}

// SetRun sets the run switch.
func (cpu *Cpu) SetRun(on bool) {
	if cpu.run.Swap(on) != on {
		cpu.counter.Add(1)
	}
}

// Run returns the run switch.
func (cpu *Cpu) Run() bool {
	return cpu.run.Load()
}

// StateCounter returns the number of run switch toggles.
func (cpu *Cpu) StateCounter() uint64 {
	return cpu.counter.Load()
}

// State returns the STATE register.
func (cpu *Cpu) State() uint16 {
	return uint16(cpu.Register.Read(register.STATE))
}

// Flag evaluates a branch condition against STATE.
func (cpu *Cpu) Flag(flag microcode.Flag) (set bool) {
	state := cpu.State()

	switch flag {
	case microcode.FLAG_Z:
		set = state&STATE_Z != 0
	case microcode.FLAG_N:
		set = state&STATE_N != 0
	case microcode.FLAG_C:
		set = state&STATE_C != 0
	case microcode.FLAG_T:
		set = state&STATE_T != 0
	case microcode.FLAG_F:
		set = state&STATE_F != 0
	case microcode.FLAG_RUN:
		set = state&STATE_RUN != 0
	case microcode.FLAG_ALWAYS:
		set = true
	}

	return
}

// syncRun samples the run switch into STATE.
func (cpu *Cpu) syncRun() {
	state := cpu.State() &^ STATE_RUN
	if cpu.run.Load() {
		state |= STATE_RUN
	}
	cpu.Register.Write(register.STATE, uint32(state))
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = cpu.Register.String()

	state := cpu.State()
	var flags []byte
	for n, name := range "CZNTFR" {
		if state&(1<<n) != 0 {
			flags = append(flags, byte(name))
		} else {
			flags = append(flags, '-')
		}
	}
	text += fmt.Sprintf("% 5s: %s\n", "flags", flags)

	return
}

// Step executes a single micro-instruction.
func (cpu *Cpu) Step() (outcome StepOutcome) {
	mip := uint8(cpu.Register.Read(register.MIP))
	word := cpu.Memory.ReadMicro(uint32(mip))
	cpu.Register.Write(register.MI, uint32(word))
	cpu.syncRun()

	inst := microcode.Decode(word)
	if cpu.Verbose {
		log.Printf("cpu: %02x: %04x %v", mip, word, inst)
	}

	next := mip + 1

	switch inst := inst.(type) {
	case microcode.Sequential:
		update := cpu.Execute(inst.Fields)
		cpu.Register.Write(register.STATE, uint32(update.Apply(cpu.State())))
	case microcode.Jump:
		next = inst.Target
	case microcode.ConditionalOrHalt:
		if cpu.Flag(inst.Flag) != inst.Invert {
			next = inst.Target
		}
		if inst.Halt {
			outcome = HALT_RETURN_TO_IDLE
		}
	case microcode.Reserved:
		// Nothing to do.
	}

	cpu.Register.Write(register.MIP, uint32(next))
	cpu.Ticks++

	return
}
