// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command bcomp is the operator console of the Basic Computer emulator.
package main

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/ezrec/bcomp/assembler"
	"github.com/ezrec/bcomp/emulator"
	"github.com/ezrec/bcomp/microcode"
)

// Globals are the flags shared by all commands.
type Globals struct {
	Verbose bool   `short:"v" help:"Verbose logging."`
	Profile string `type:"path" help:"Write a CPU profile to this directory."`
}

type consoleCmd struct {
	Microcode string        `type:"existingfile" help:"Micro-assembly file to load instead of the default microprogram."`
	Program   string        `type:"existingfile" help:"Assembly program to load into main memory."`
	Input     string        `type:"existingfile" help:"File read by the input tape on device 2."`
	Output    string        `help:"File written by the output tape on device 1, or - for stdout."`
	Pace      time.Duration `default:"10ms" help:"Delay between micro-steps while running."`
}

type asmCmd struct {
	Source string `arg:"" type:"existingfile" help:"Assembly program."`
}

type ucCmd struct {
	Source string `arg:"" type:"existingfile" help:"Micro-assembly program."`
}

var cli struct {
	Globals

	Console consoleCmd `cmd:"" default:"1" help:"Run the interactive console."`
	Asm     asmCmd     `cmd:"" help:"Assemble a program, and print its listing."`
	Uc      ucCmd      `cmd:"" help:"Assemble a microprogram, and print its listing."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("bcomp"),
		kong.Description("Basic Computer emulator."),
	)

	if len(cli.Profile) != 0 {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cli.Profile), profile.NoShutdownHook).Stop()
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadMicrocode assembles a microprogram file.
func loadMicrocode(path string, verbose bool, defines iter.Seq2[string, string]) (prog *microcode.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &microcode.Assembler{Verbose: verbose}
	for key, value := range defines {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func (cmd *consoleCmd) Run(globals *Globals) (err error) {
	emu := emulator.NewEmulator()
	defer emu.Close()

	emu.Verbose = globals.Verbose
	emu.Pace = cmd.Pace

	if len(cmd.Microcode) != 0 {
		var prog *microcode.Program
		prog, err = loadMicrocode(cmd.Microcode, globals.Verbose, emu.Defines())
		if err != nil {
			return
		}
		emu.LoadMicrocode(prog)
	}

	if len(cmd.Input) != 0 {
		var inf *os.File
		inf, err = os.Open(cmd.Input)
		if err != nil {
			return
		}
		defer inf.Close()
		emu.Tape[2].Input = inf
	}

	switch cmd.Output {
	case "":
	case "-":
		emu.Tape[1].Output = os.Stdout
	default:
		var ouf *os.File
		ouf, err = os.Create(cmd.Output)
		if err != nil {
			return
		}
		defer ouf.Close()
		emu.Tape[1].Output = ouf
	}

	con := NewConsole(emu, os.Stdin, os.Stdout)
	con.Prompt = isTerminal(os.Stdin.Fd())

	if len(cmd.Program) != 0 {
		var source []byte
		source, err = os.ReadFile(cmd.Program)
		if err != nil {
			return
		}
		err = con.Load(string(source))
		if err != nil {
			err = fmt.Errorf("%v: %w", cmd.Program, err)
			return
		}
	}

	err = con.Run()

	return
}

// writeListing prints an assembled program.
func writeListing(w io.Writer, prog *assembler.Program) {
	for n := range prog.Words {
		word := &prog.Words[n]
		fmt.Fprintf(w, "%03X %04X  %-12v ; %d\n", word.Addr, word.Code, word.Text(), word.LineNo)
	}
	for _, name := range prog.ArgumentNames() {
		addr, _ := prog.LabelAddress(name)
		fmt.Fprintf(w, "; argument %v at %03X\n", name, addr)
	}
}

func (cmd *asmCmd) Run(globals *Globals) (err error) {
	source, err := os.ReadFile(cmd.Source)
	if err != nil {
		return
	}

	asm := &assembler.Assembler{Verbose: globals.Verbose}
	prog, err := asm.Parse(bytes.NewReader(source))
	if err != nil {
		err = fmt.Errorf("%v: %w", cmd.Source, err)
		return
	}

	writeListing(os.Stdout, prog)

	return
}

// writeMicroListing prints an assembled microprogram.
func writeMicroListing(w io.Writer, prog *microcode.Program) {
	for _, op := range prog.Opcodes {
		fmt.Fprintf(w, "%02X %04X  %-24v ; %d\n", op.Mip, op.Code, microcode.Decode(op.Code), op.LineNo)
	}
}

func (cmd *ucCmd) Run(globals *Globals) (err error) {
	emu := emulator.NewEmulator()
	defer emu.Close()

	prog, err := loadMicrocode(cmd.Source, globals.Verbose, emu.Defines())
	if err != nil {
		return
	}

	if globals.Verbose {
		log.Printf("bcomp: %v: %d micro-instructions", cmd.Source, len(prog.Opcodes))
	}

	writeMicroListing(os.Stdout, prog)

	return
}
