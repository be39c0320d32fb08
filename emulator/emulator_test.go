package emulator

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bcomp/microcode"
	"github.com/ezrec/bcomp/register"
)

// newTest creates an emulator with a program loaded at origin.
func newTest(t *testing.T, origin uint32, words ...uint16) (emu *Emulator) {
	emu = NewEmulator()
	t.Cleanup(func() { emu.Close() })

	emu.Cpu.Memory.LoadMain(origin, words)

	return
}

// waitDone waits for a resumed run to complete.
func waitDone(t *testing.T, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("emulator did not stop")
	}
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defer emu.Close()

	assert.False(emu.Verbose)
	assert.Equal(STOPPED, emu.State())
	assert.False(emu.Tact())
	assert.False(emu.Cpu.Run())
	assert.NotNil(emu.Program)

	prog, err := microcode.Default()
	assert.NoError(err)
	for mip, word := range prog.Codes() {
		assert.Equal(word, emu.Cpu.Memory.ReadMicro(uint32(mip)))
	}

	emu.Cpu.Register.Write(register.MIP, microcode.ENTRY_START)
	assert.Equal(prog.Debug(microcode.ENTRY_START).LineNo, emu.LineNo())
}

func TestEmulator_Start(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010,
		0x4020, // ADD 0x20
		0x4021, // ADD 0x21
		0x3022, // MOV 0x22
		0xf000, // HLT
	)
	emu.Cpu.Memory.LoadMain(0x020, []uint16{5, 7})
	emu.Cpu.Register.Write(register.AC, 0xffff)

	var repaints atomic.Int64
	emu.Repaint = func() { repaints.Add(1) }

	emu.Address(0x010)
	assert.Equal(uint32(0x010), emu.Cpu.Register.Read(register.IP))
	assert.Equal(uint32(0x010), emu.Cpu.Register.Read(register.KEY))

	assert.True(emu.ToggleRun())
	emu.Start()

	assert.Equal(STOPPED, emu.State())
	assert.Equal(uint32(12), emu.Cpu.Register.Read(register.AC))
	assert.Equal(uint16(12), emu.Cpu.Memory.ReadMain(0x022))
	assert.Equal(uint32(0x014), emu.Cpu.Register.Read(register.IP))
	assert.Equal(uint32(microcode.ENTRY_FETCH), emu.Cpu.Register.Read(register.MIP))
	assert.Equal(int64(emu.Cpu.Ticks), repaints.Load())
}

func TestEmulator_StartSingleInstruction(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010,
		0xf800, // INC
		0xf800, // INC
		0xf000, // HLT
	)

	emu.Address(0x010)
	emu.Start()
	assert.Equal(uint32(1), emu.Cpu.Register.Read(register.AC))
	assert.Equal(uint32(0x011), emu.Cpu.Register.Read(register.IP))

	emu.Continue()
	assert.Equal(uint32(2), emu.Cpu.Register.Read(register.AC))
	assert.Equal(uint32(0x012), emu.Cpu.Register.Read(register.IP))
}

func TestEmulator_TactAddress(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	assert.True(emu.ToggleClock())
	emu.Address(0x123)

	assert.Equal(uint32(0x23), emu.Cpu.Register.Read(register.MIP))
	assert.Equal(uint32(0x123), emu.Cpu.Register.Read(register.KEY))
	assert.Equal(uint32(0), emu.Cpu.Register.Read(register.IP))
	assert.Equal(uint64(0), emu.Cpu.Ticks)
	assert.Equal(STOPPED, emu.State())

	assert.False(emu.ToggleClock())
}

func TestEmulator_TactWrite(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	emu.ToggleClock()
	emu.Address(0xf0)
	emu.Write(0x8000)
	emu.Write(0x400e)

	assert.Equal(uint16(0x8000), emu.Cpu.Memory.ReadMicro(0xf0))
	assert.Equal(uint16(0x400e), emu.Cpu.Memory.ReadMicro(0xf1))
	assert.Equal(uint32(0xf2), emu.Cpu.Register.Read(register.MIP))
	assert.Equal(uint64(0), emu.Cpu.Ticks)
	assert.Equal(uint16(0), emu.Cpu.Memory.ReadMain(0))
}

func TestEmulator_TactStep(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010, 0xf800) // INC

	emu.Address(0x010)
	emu.ToggleClock()
	emu.Cpu.Register.Write(register.MIP, microcode.ENTRY_FETCH)
	ticks := emu.Cpu.Ticks

	emu.Continue()
	assert.Equal(ticks+1, emu.Cpu.Ticks)
	assert.Equal(uint32(1), emu.Cpu.Register.Read(register.MIP))
	assert.Equal(uint32(0x010), emu.Cpu.Register.Read(register.AR))

	// A console action is a single micro-step too.
	emu.Read()
	assert.Equal(ticks+2, emu.Cpu.Ticks)
	assert.Equal(uint32(microcode.ENTRY_READ+1), emu.Cpu.Register.Read(register.MIP))
}

func TestEmulator_Write(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	emu.Address(0x010)
	emu.Write(0x00ab)

	assert.Equal(uint16(0x00ab), emu.Cpu.Memory.ReadMain(0x010))
	assert.Equal(uint32(0x010), emu.Cpu.Register.Read(register.AR))
	assert.Equal(uint32(0x011), emu.Cpu.Register.Read(register.IP))
	assert.Equal(STOPPED, emu.State())

	emu.Write(0x1234)
	assert.Equal(uint16(0x1234), emu.Cpu.Memory.ReadMain(0x011))
}

func TestEmulator_Read(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x100, 0xcafe, 0xbeef)

	emu.Address(0x100)
	emu.Read()
	assert.Equal(uint32(0xcafe), emu.Cpu.Register.Read(register.DR))
	emu.Read()
	assert.Equal(uint32(0xbeef), emu.Cpu.Register.Read(register.DR))
	assert.Equal(uint32(0x102), emu.Cpu.Register.Read(register.IP))
}

func TestEmulator_RunStop(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010, 0xc010) // BR 0x010
	emu.Pace = time.Millisecond

	emu.Address(0x010)
	emu.ToggleRun()
	emu.Cpu.Register.Write(register.MIP, microcode.ENTRY_START)

	done := emu.Resume()
	if !assert.NotNil(done) {
		return
	}
	assert.Nil(emu.Resume())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(RUNNING, emu.State())

	emu.Stop()
	assert.Equal(STOPPED, emu.State())
	waitDone(t, done)

	ticks := emu.Cpu.Ticks
	assert.Less(uint64(0), ticks)
	assert.Equal(uint32(0x010), emu.Cpu.Register.Read(register.IP)&0xff0)

	// Stopping a stopped emulator does nothing.
	emu.Stop()
	assert.Equal(STOPPED, emu.State())
	assert.Equal(ticks, emu.Cpu.Ticks)

	// The run switch ends the program at the next instruction.
	done = emu.Resume()
	emu.ToggleRun()
	waitDone(t, done)
	assert.Equal(STOPPED, emu.State())
	assert.Equal(uint32(microcode.ENTRY_FETCH), emu.Cpu.Register.Read(register.MIP))
}

func TestEmulator_Tape(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010,
		0xe102, // TSF 2
		0xc010, // BR 0x010
		0xf200, // CLA
		0xe202, // IN 2
		0xe002, // CLF 2
		0xe101, // TSF 1
		0xc015, // BR 0x015
		0xe301, // OUT 1
		0xe001, // CLF 1
		0x0020, // ISZ 0x020
		0xc010, // BR 0x010
		0xf000, // HLT
	)
	emu.Cpu.Memory.LoadMain(0x020, []uint16{0xfffe})

	var out bytes.Buffer
	emu.Tape[1].Output = &out
	emu.Tape[2].Input = strings.NewReader("Hi!")

	emu.Address(0x010)
	emu.ToggleRun()
	emu.Start()

	assert.Equal("Hi", out.String())
	assert.Equal(uint32('i'), emu.Cpu.Register.Read(register.AC))
	assert.Equal(uint32(0x01c), emu.Cpu.Register.Read(register.IP))
	assert.Equal(uint16(0), emu.Cpu.Memory.ReadMain(0x020))
}

func TestEmulator_Micro(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	emu.MicroAddress(0xfe)
	emu.MicroWrite(0x1111)
	emu.MicroWrite(0x2222)
	emu.MicroWrite(0x3333)
	assert.Equal(uint32(0x01), emu.Cpu.Register.Read(register.MIP))

	emu.MicroAddress(0xfe)
	assert.Equal(uint16(0x1111), emu.MicroRead())
	assert.Equal(uint16(0x2222), emu.MicroRead())
	assert.Equal(uint16(0x3333), emu.MicroRead())
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010, 0x1234)
	emu.Address(0x010)
	emu.Cpu.Bus.SetReady(1)

	emu.Reset()
	assert.Equal(uint32(0), emu.Cpu.Register.Read(register.IP))
	assert.Equal(uint16(0), emu.Cpu.Memory.ReadMain(0x010))
	assert.False(emu.Cpu.Bus.GetReady(1))
	assert.Equal(uint16(microcode.MakeJump(microcode.ENTRY_FETCH)), emu.Cpu.Memory.ReadMicro(microcode.ENTRY_START+2))
}

func TestEmulator_Close(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Close())
	assert.Equal(CLOSED, emu.State())

	assert.Nil(emu.Resume())
	emu.Start()
	assert.Equal(uint64(0), emu.Cpu.Ticks)

	assert.NoError(emu.Close())
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defer emu.Close()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x1000", defines["MAIN_SIZE"])
	assert.Equal("4", defines["DEVICE_COUNT"])
	assert.Equal("0xa8", defines["ENTRY_START"])
	assert.Equal("0x20", defines["STATE_RUN"])

	// Defines feed the micro-assembler.
	asm := &microcode.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(".org ENTRY_START\nhalt $(ENTRY_FETCH + 1)"))
	if assert.NoError(err) {
		assert.Equal(microcode.MakeHalt(1), prog.Binary()[microcode.ENTRY_START])
	}
}

func TestEmulator_HaltOutcome(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	// A routine of a single halt runs exactly one step.
	emu.MicroAddress(0xf0)
	emu.MicroWrite(microcode.MakeHalt(0x10))
	emu.MicroAddress(0xf0)
	emu.Continue()

	assert.Equal(uint64(1), emu.Cpu.Ticks)
	assert.Equal(uint32(0x10), emu.Cpu.Register.Read(register.MIP))
}

func TestEmulator_WriteAtIP(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	// The console stores at IP. AR is only a scratch register of the routine.
	emu.Cpu.Register.Write(register.AR, 0x010)
	emu.Write(0x00ab)

	assert.Equal(uint16(0x00ab), emu.Cpu.Memory.ReadMain(0x000))
	assert.Equal(uint16(0), emu.Cpu.Memory.ReadMain(0x010))
	assert.Equal(uint32(0x000), emu.Cpu.Register.Read(register.AR))
	assert.Equal(uint32(0x001), emu.Cpu.Register.Read(register.IP))
}

func TestEmulator_Devices(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0)

	for n := range emu.Tape {
		assert.Same(&emu.Tape[n], emu.Cpu.Bus.Device(uint32(n)), n)
	}
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	emu := newTest(t, 0x010, 0xf000) // HLT

	emu.Verbose = true
	emu.Address(0x010)
	assert.True(emu.Cpu.Verbose)
	assert.True(emu.Tape[1].Verbose)

	emu.Verbose = false
	emu.Start()
	assert.False(emu.Cpu.Verbose)
	assert.False(emu.Tape[1].Verbose)
}
