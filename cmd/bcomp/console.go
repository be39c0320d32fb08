// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/bcomp/assembler"
	"github.com/ezrec/bcomp/cpu"
	"github.com/ezrec/bcomp/emulator"
	bio "github.com/ezrec/bcomp/io"
	"github.com/ezrec/bcomp/register"
	"github.com/ezrec/bcomp/translate"
)

// RESULT_LABEL is the conventional label of a program's result cell.
const RESULT_LABEL = "R"

// Console is the operator console of the Basic Computer.
type Console struct {
	Emulator *emulator.Emulator // Machine under control.
	Program  *assembler.Program // Last assembled program, if any.
	Prompt   bool               // If set, a prompt is shown before each command.

	input  *bufio.Scanner
	output io.Writer
	writes []uint16
}

type command struct {
	name string
	run  func(con *Console, args []string) error
}

var commands = []command{
	{"address", (*Console).cmdAddress},
	{"write", (*Console).cmdWrite},
	{"read", (*Console).cmdRead},
	{"start", (*Console).cmdStart},
	{"continue", (*Console).cmdContinue},
	{"clock", (*Console).cmdClock},
	{"run", (*Console).cmdRun},
	{"maddress", (*Console).cmdMicroAddress},
	{"mwrite", (*Console).cmdMicroWrite},
	{"mread", (*Console).cmdMicroRead},
	{"io", (*Console).cmdIo},
	{"flag", (*Console).cmdFlag},
	{"asm", (*Console).cmdAsm},
	{"assembler", (*Console).cmdAsm},
	{"arguments", (*Console).cmdArguments},
}

const helpText = `Console commands:
a[ddress] {value|label} - Set IP from the key register
w[rite] value ... - Store each value to memory at IP
r[ead] [count] - Read 1 or count words of memory at IP
s[tart] - Start the program at IP
c[ontinue] [count] - Execute 1 or count steps, instructions or programs
ru[n] - Toggle the run/stop switch
cl[ock] - Toggle single micro-step mode
ma[ddress] value - Set MIP
mw[rite] value ... - Store each value to the microcode store at MIP
mr[ead] [count] - Read 1 or count words of the microcode store at MIP
io [device [value]] - Show all devices, one device, or set its data
flag device - Set the ready flag of a device
asm - Enter an assembly program, finished by END
ar[guments] - Enter the arguments of the assembled program
`

// NewConsole creates a console for an emulator.
func NewConsole(emu *emulator.Emulator, input io.Reader, output io.Writer) (con *Console) {
	con = &Console{
		Emulator: emu,
		input:    bufio.NewScanner(input),
		output:   output,
	}

	emu.Cpu.Memory.Watch = con.watch

	return
}

// watch records main memory writes of the current step.
func (con *Console) watch(addr uint16, value uint16) {
	for _, seen := range con.writes {
		if seen == addr {
			return
		}
	}
	con.writes = append(con.writes, addr)
}

func (con *Console) printf(format string, args ...any) {
	translate.Fprintf(con.output, format, args...)
}

// readLine returns the next line of input.
func (con *Console) readLine() (line string, ok bool) {
	ok = con.input.Scan()
	if ok {
		line = con.input.Text()
	}
	return
}

// Run executes console commands until the input ends.
func (con *Console) Run() (err error) {
	con.printf("Basic Computer emulator\n")
	con.printf("Microprogram of %d words loaded\n", len(con.Emulator.Program.Opcodes))
	con.printf("Use ? or help for help\n")

	for {
		if con.Prompt {
			con.printf("> ")
		}

		line, ok := con.readLine()
		if !ok {
			break
		}

		err = con.Execute(line)
		if err != nil {
			con.printf("Error: %v\n", err)
		}
	}

	err = con.input.Err()

	return
}

// match returns true if word abbreviates name.
func match(word string, name string) bool {
	return len(word) > 0 && strings.HasPrefix(name, strings.ToLower(word))
}

// Execute runs a single console command.
func (con *Console) Execute(line string) (err error) {
	words := strings.Fields(line)
	if len(words) == 0 || strings.HasPrefix(words[0], "#") {
		return
	}

	if match(words[0], "?") || match(words[0], "help") {
		con.printf(helpText)
		return
	}

	for _, cmd := range commands {
		if !match(words[0], cmd.name) {
			continue
		}
		err = cmd.run(con, words[1:])
		if err != nil {
			err = &ErrConsoleInput{Command: cmd.name, Err: err}
		}
		return
	}

	con.printf("Unknown command\n")

	return
}

// value parses a hexadecimal console value.
func value(word string) (v uint16, err error) {
	v64, err := strconv.ParseUint(word, 16, 16)
	if err != nil {
		err = ErrValueInvalid(word)
		return
	}

	v = uint16(v64)

	return
}

// count parses an optional hexadecimal repeat count.
func count(args []string) (n int, err error) {
	if len(args) == 0 {
		n = 1
		return
	}

	v, err := value(args[0])
	n = int(v)

	return
}

// address parses a hexadecimal value, or a label of the assembled program.
func (con *Console) address(word string) (addr uint16, err error) {
	addr, err = value(word)
	if err != nil && con.Program != nil {
		addr, err = con.Program.LabelAddress(word)
	}

	return
}

func hex(value uint32, digits int) string {
	return fmt.Sprintf("%0*X", digits, value)
}

func (con *Console) reg(id register.ID) string {
	return hex(con.Emulator.Cpu.Register.Read(id), id.Digits())
}

// flag returns the value of a STATE bit.
func (con *Console) flag(bit uint16) int {
	if con.Emulator.Cpu.State()&bit != 0 {
		return 1
	}
	return 0
}

// ip returns the address the next step starts from.
func (con *Console) ip() uint32 {
	if con.Emulator.Tact() {
		return con.Emulator.Cpu.Register.Read(register.MIP)
	}
	return con.Emulator.Cpu.Register.Read(register.IP)
}

func (con *Console) printTitle() {
	if con.Emulator.Tact() {
		con.printf("MIP MI   IP  AR  IR   DR   AC  C BR    N Z MIP\n")
	} else {
		con.printf("Adr Val  IP  AR  IR   DR   AC  C Adr Val\n")
	}
}

// printRegs shows the registers after a step that started at addr.
func (con *Console) printRegs(addr uint32) {
	mc := con.Emulator.Cpu
	regs := strings.Join([]string{
		con.reg(register.IP),
		con.reg(register.AR),
		con.reg(register.IR),
		con.reg(register.DR),
		con.reg(register.AC),
		strconv.Itoa(con.flag(cpu.STATE_C)),
	}, " ")

	if con.Emulator.Tact() {
		con.printf("%v %v %v %v %v %v  %v ; line %d\n",
			hex(addr, 2), hex(uint32(mc.Memory.ReadMicro(addr)), 4),
			regs, con.reg(register.BR),
			con.flag(cpu.STATE_N), con.flag(cpu.STATE_Z), con.reg(register.MIP),
			con.Emulator.LineNo())
		return
	}

	var written string
	if len(con.writes) > 0 {
		wr := uint32(con.writes[0])
		written = " " + hex(wr, 3) + " " + hex(uint32(mc.Memory.ReadMain(wr)), 4)
	}
	con.printf("%v %v %v%v\n", hex(addr, 3), hex(uint32(mc.Memory.ReadMain(addr)), 4), regs, written)

	if len(con.writes) > 1 {
		for _, wr := range con.writes[1:] {
			con.printf("%33s%v %v\n", "", hex(uint32(wr), 3), hex(uint32(mc.Memory.ReadMain(uint32(wr))), 4))
		}
	}
}

// step runs a console action, and shows the registers.
func (con *Console) step(title bool, action func()) {
	if title {
		con.printTitle()
	}

	addr := con.ip()
	con.writes = con.writes[:0]
	action()
	con.printRegs(addr)
}

func (con *Console) cmdAddress(args []string) (err error) {
	if len(args) != 1 {
		err = ErrValueOne
		return
	}

	addr, err := con.address(args[0])
	if err != nil {
		return
	}

	con.step(true, func() { con.Emulator.Address(addr) })

	return
}

func (con *Console) cmdWrite(args []string) (err error) {
	if len(args) == 0 {
		err = ErrValueRequired
		return
	}

	for n, arg := range args {
		var v uint16
		v, err = value(arg)
		if err != nil {
			return
		}
		con.step(n == 0, func() { con.Emulator.Write(v) })
	}

	return
}

func (con *Console) cmdRead(args []string) (err error) {
	n, err := count(args)
	if err != nil {
		return
	}

	con.printTitle()
	for range n {
		con.step(false, con.Emulator.Read)
	}

	return
}

func (con *Console) cmdStart(args []string) (err error) {
	con.step(true, con.Emulator.Start)
	return
}

func (con *Console) cmdContinue(args []string) (err error) {
	n, err := count(args)
	if err != nil {
		return
	}

	con.printTitle()
	for range n {
		con.step(false, con.Emulator.Continue)
	}

	return
}

func (con *Console) cmdClock(args []string) (err error) {
	if con.Emulator.ToggleClock() {
		con.printf("Tact: yes\n")
	} else {
		con.printf("Tact: no\n")
	}
	return
}

func (con *Console) cmdRun(args []string) (err error) {
	if con.Emulator.ToggleRun() {
		con.printf("Run mode: run\n")
	} else {
		con.printf("Run mode: stop\n")
	}
	return
}

func (con *Console) printMicro(mip uint32) {
	con.printf("%v %v\n", hex(mip, 2), hex(uint32(con.Emulator.Cpu.Memory.ReadMicro(mip)), 4))
}

func (con *Console) cmdMicroAddress(args []string) (err error) {
	if len(args) == 0 {
		err = ErrValueRequired
		return
	}

	mip, err := value(args[0])
	if err != nil {
		return
	}

	con.Emulator.MicroAddress(uint8(mip))
	con.printf("MIP MI\n")
	con.printMicro(uint32(uint8(mip)))

	return
}

func (con *Console) cmdMicroWrite(args []string) (err error) {
	con.printf("MIP MI\n")
	for _, arg := range args {
		var v uint16
		v, err = value(arg)
		if err != nil {
			return
		}
		mip := con.Emulator.Cpu.Register.Read(register.MIP)
		con.Emulator.MicroWrite(v)
		con.printMicro(mip)
	}

	return
}

func (con *Console) cmdMicroRead(args []string) (err error) {
	n, err := count(args)
	if err != nil {
		return
	}

	con.printf("MIP MI\n")
	for range n {
		mip := con.Emulator.Cpu.Register.Read(register.MIP)
		con.Emulator.MicroRead()
		con.printMicro(mip)
	}

	return
}

func (con *Console) printIo(dev uint32) {
	bus := con.Emulator.Cpu.Bus
	ready := 0
	if bus.GetReady(dev) {
		ready = 1
	}
	con.printf("DEV%d: flag = %d data = %v\n", dev, ready, hex(uint32(bus.GetData(dev)), 2))
}

// device parses a device number.
func device(word string) (dev uint32, err error) {
	v, err := value(word)
	if err != nil {
		return
	}
	if v >= bio.CONTROLLER_COUNT {
		err = ErrDeviceInvalid
		return
	}

	dev = uint32(v)

	return
}

func (con *Console) cmdIo(args []string) (err error) {
	if len(args) == 0 {
		for dev := range uint32(bio.CONTROLLER_COUNT) {
			con.printIo(dev)
		}
		return
	}

	dev, err := device(args[0])
	if err != nil {
		return
	}

	if len(args) > 1 {
		var v uint16
		v, err = value(args[1])
		if err != nil {
			return
		}
		con.printf("Value: %d\n", v)
		con.Emulator.Cpu.Bus.SetData(dev, v)
	}

	con.printIo(dev)

	return
}

func (con *Console) cmdFlag(args []string) (err error) {
	if len(args) == 0 {
		err = ErrValueRequired
		return
	}

	dev, err := device(args[0])
	if err != nil {
		return
	}

	con.Emulator.Cpu.Bus.SetReady(dev)
	con.printIo(dev)

	return
}

// Load assembles a program, and loads it into main memory.
func (con *Console) Load(source string) (err error) {
	prog, err := assembler.Compile(source)
	if err != nil {
		return
	}

	con.Emulator.Stop()
	prog.Load(con.Emulator.Cpu.Memory)
	con.Program = prog

	con.printf("Program begins at %v\n", hex(uint32(prog.BeginAddress()), 3))
	addr, rerr := prog.LabelAddress(RESULT_LABEL)
	if rerr == nil {
		con.printf("Result at %v\n", hex(uint32(addr), 3))
	}

	return
}

func (con *Console) cmdAsm(args []string) (err error) {
	con.printf("Enter the program text. Finish with END\n")

	var text strings.Builder
	for {
		line, ok := con.readLine()
		if !ok || strings.EqualFold(strings.TrimSpace(line), "END") {
			break
		}
		text.WriteString(line)
		text.WriteString("\n")
	}

	err = con.Load(text.String())

	return
}

func (con *Console) cmdArguments(args []string) (err error) {
	if con.Program == nil {
		err = ErrNoProgram
		return
	}

	for _, name := range con.Program.ArgumentNames() {
		con.printf("%v: ", name)
		line, ok := con.readLine()
		if !ok {
			err = ErrInputEnded
			return
		}

		var v, addr uint16
		v, err = con.address(strings.TrimSpace(line))
		if err != nil {
			return
		}
		addr, err = con.Program.LabelAddress(name)
		if err != nil {
			return
		}

		con.Emulator.Address(addr)
		con.Emulator.Write(v)
	}

	con.Emulator.Address(con.Program.BeginAddress())

	return
}
