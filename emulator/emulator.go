// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives the Basic Computer from a console.
//
// A single worker goroutine steps the CPU. Console actions stop the
// worker, select the entry micro-address of a console routine, and resume
// it until the routine halts.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ezrec/bcomp/cpu"
	"github.com/ezrec/bcomp/internal"
	"github.com/ezrec/bcomp/io"
	"github.com/ezrec/bcomp/memory"
	"github.com/ezrec/bcomp/microcode"
	"github.com/ezrec/bcomp/register"
)

var _emulator_defines = map[string]string{
	"MAIN_SIZE":    fmt.Sprintf("%#x", memory.MAIN_SIZE),
	"DEVICE_COUNT": fmt.Sprintf("%v", io.CONTROLLER_COUNT),
}

// State is the execution state of the worker.
type State int32

//go:generate go tool stringer -linecomment -type=State
const (
	STOPPED  = State(0) // stopped
	RUNNING  = State(1) // running
	STOPPING = State(2) // stopping
	CLOSED   = State(3) // closed
)

// Emulator state. CPU + microprogram + devices + worker.
type Emulator struct {
	Verbose  bool               // If set, enables verbose logging.
	*cpu.Cpu                    // Reference to the CPU simulation.
	Program  *microcode.Program // Listing of the loaded microprogram.

	Pace    time.Duration // Delay between autonomous micro-steps.
	Repaint func()        // Called by the worker after every micro-step.

	Tape [io.CONTROLLER_COUNT]io.Tape // Stream devices, one per controller.

	state   atomic.Int32
	tact    atomic.Bool
	resume  chan chan struct{}
	stopped chan struct{}
	wg      sync.WaitGroup
}

// NewEmulator creates a new emulator, loaded with the default microprogram,
// and starts its worker.
func NewEmulator() (emu *Emulator) {
	prog, err := microcode.Default()
	if err != nil {
		log.Panicf("emulator: default microprogram: %v", err)
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		resume:  make(chan chan struct{}, 1),
		stopped: make(chan struct{}, 1),
	}

	for n := range emu.Tape {
		err = emu.Cpu.Bus.Attach(uint32(n), &emu.Tape[n])
		if err != nil {
			log.Panicf("emulator: tape %d: %v", n, err)
		}
	}

	emu.LoadMicrocode(prog)

	emu.wg.Add(1)
	go emu.worker()

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		microcode.Defines(),
		emu.Cpu.Defines(),
	)
}

// Close stops the worker. The emulator cannot be resumed afterwards.
func (emu *Emulator) Close() (err error) {
	for {
		emu.Stop()
		if emu.transition(STOPPED, CLOSED) {
			break
		}
		if emu.State() == CLOSED {
			return
		}
	}

	close(emu.resume)
	emu.wg.Wait()

	return
}

// State returns the execution state.
func (emu *Emulator) State() State {
	return State(emu.state.Load())
}

// transition moves the execution state from one state to another,
// returning false if the state was not 'from'.
func (emu *Emulator) transition(from, to State) bool {
	ok := emu.state.CompareAndSwap(int32(from), int32(to))
	if ok && emu.Verbose {
		log.Printf("emulator: %v -> %v", from, to)
	}
	return ok
}

// worker steps the CPU for every resume request.
func (emu *Emulator) worker() {
	defer emu.wg.Done()

	for done := range emu.resume {
		emu.run()
		close(done)
	}
}

// run steps the CPU until the routine halts, a single tact completes,
// or a stop is requested.
func (emu *Emulator) run() {
	for emu.State() == RUNNING {
		outcome := emu.Cpu.Step()
		emu.Cpu.Bus.Tick()

		if emu.Repaint != nil {
			emu.Repaint()
		}

		if emu.tact.Load() || outcome == cpu.HALT_RETURN_TO_IDLE {
			break
		}

		if emu.Pace > 0 {
			time.Sleep(emu.Pace)
		}
	}

	if !emu.transition(RUNNING, STOPPED) {
		emu.transition(STOPPING, STOPPED)
		emu.stopped <- struct{}{}
	}
}

// Resume starts the worker from the current micro-address.
//
// The returned channel is closed when the worker stops again. If the
// emulator is not stopped, Resume does nothing and returns nil.
func (emu *Emulator) Resume() (done <-chan struct{}) {
	if !emu.transition(STOPPED, RUNNING) {
		return
	}

	// The worker is idle until the send below.
	emu.setVerbose()

	ch := make(chan struct{})
	emu.resume <- ch
	done = ch

	return
}

// setVerbose passes the logging switch on to the CPU and the devices.
func (emu *Emulator) setVerbose() {
	emu.Cpu.Verbose = emu.Verbose
	for n := range emu.Tape {
		emu.Tape[n].Verbose = emu.Verbose
	}
}

// Stop requests the worker to stop, and waits until it has.
// If the emulator is not running, Stop does nothing.
func (emu *Emulator) Stop() {
	if emu.transition(RUNNING, STOPPING) {
		<-emu.stopped
	}
}

// wait blocks until done is closed.
func wait(done <-chan struct{}) {
	if done != nil {
		<-done
	}
}

// action runs the console routine at entry, and waits for it to finish.
func (emu *Emulator) action(entry uint8) {
	emu.Stop()
	emu.Cpu.Register.Write(register.MIP, uint32(entry))
	wait(emu.Resume())
}

// Tact returns true if the clock is in single micro-step mode.
func (emu *Emulator) Tact() bool {
	return emu.tact.Load()
}

// ToggleClock switches between continuous and single micro-step mode.
func (emu *Emulator) ToggleClock() (tact bool) {
	for {
		tact = emu.tact.Load()
		if emu.tact.CompareAndSwap(tact, !tact) {
			return !tact
		}
	}
}

// ToggleRun flips the run switch.
func (emu *Emulator) ToggleRun() (run bool) {
	run = !emu.Cpu.Run()
	emu.Cpu.SetRun(run)
	return
}

// Start clears the accumulator and carry, and runs from IP.
func (emu *Emulator) Start() {
	emu.action(microcode.ENTRY_START)
}

// Continue resumes from the current micro-address, and waits.
func (emu *Emulator) Continue() {
	emu.Stop()
	wait(emu.Resume())
}

// Address sets the key register, then IP from it.
// In single micro-step mode, MIP is set from the key instead.
func (emu *Emulator) Address(key uint16) {
	if emu.tact.Load() {
		emu.Cpu.Register.Write(register.KEY, uint32(key))
		emu.Cpu.Register.Write(register.MIP, uint32(key))
		return
	}

	emu.Stop()
	emu.Cpu.Register.Write(register.KEY, uint32(key))
	emu.action(microcode.ENTRY_ADDRESS)
}

// Read loads DR from main memory at IP, and advances IP.
func (emu *Emulator) Read() {
	emu.action(microcode.ENTRY_READ)
}

// Write sets the key register, then stores it to main memory at IP,
// and advances IP.
// In single micro-step mode, the key is stored to the microcode store at
// MIP instead, and MIP advances.
func (emu *Emulator) Write(key uint16) {
	if emu.tact.Load() {
		emu.Cpu.Register.Write(register.KEY, uint32(key))
		emu.MicroWrite(key)
		return
	}

	emu.Stop()
	emu.Cpu.Register.Write(register.KEY, uint32(key))
	emu.action(microcode.ENTRY_WRITE)
}

// MicroAddress sets MIP.
func (emu *Emulator) MicroAddress(mip uint8) {
	emu.Stop()
	emu.Cpu.Register.Write(register.MIP, uint32(mip))
}

// MicroWrite stores a word to the microcode store at MIP, and advances MIP.
func (emu *Emulator) MicroWrite(word uint16) {
	emu.Stop()
	mip := emu.Cpu.Register.Read(register.MIP)
	emu.Cpu.Memory.WriteMicro(mip, word)
	emu.Cpu.Register.Write(register.MIP, mip+1)
}

// MicroRead returns the word in the microcode store at MIP, and advances MIP.
func (emu *Emulator) MicroRead() (word uint16) {
	emu.Stop()
	mip := emu.Cpu.Register.Read(register.MIP)
	word = emu.Cpu.Memory.ReadMicro(mip)
	emu.Cpu.Register.Write(register.MIP, mip+1)
	return
}

// LoadMicrocode replaces the microcode store with an assembled microprogram.
func (emu *Emulator) LoadMicrocode(prog *microcode.Program) {
	emu.Stop()
	emu.Cpu.Memory.LoadMicro(prog.Binary())
	emu.Program = prog
}

// Reset clears the registers, main memory, and devices.
// The microcode store and the switches are untouched.
func (emu *Emulator) Reset() {
	emu.Stop()
	emu.Cpu.Reset()
	emu.Cpu.Memory.Reset()
	emu.Cpu.Bus.Reset()
}

// LineNo returns the microprogram source line at MIP, or zero.
func (emu *Emulator) LineNo() (lineno int) {
	if emu.Program == nil {
		return
	}

	op := emu.Program.Debug(uint8(emu.Cpu.Register.Read(register.MIP)))
	if op != nil {
		lineno = op.LineNo
	}

	return
}
