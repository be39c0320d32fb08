// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package microcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/bcomp/internal"
	"github.com/ezrec/bcomp/memory"
)

// Macro represents a macro definition in the micro-assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":     "0",
	"MICRO_SIZE": fmt.Sprintf("%#v", memory.MICRO_SIZE),
	"ADDR_MASK":  fmt.Sprintf("%#v", ADDR_MASK),
}

// Assembler is a single pass macro assembler for Basic Computer microcode.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to micro-addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	mip  int                     // Next micro-address to assemble.
	used [memory.MICRO_SIZE]bool // Micro-addresses already assembled.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// srcMap is a map of source names to ALU inputs.
var srcMap = map[string]Source{
	"0":    SRC_ZERO,
	"ac":   SRC_AC,
	"dr":   SRC_DR,
	"ir":   SRC_IR,
	"ip":   SRC_IP,
	"ar":   SRC_AR,
	"key":  SRC_KEY,
	"addr": SRC_ADDR,
}

// dstMap is a map of destination names to ALU outputs.
var dstMap = map[string]Dest{
	"-":     DST_NONE,
	"ac":    DST_AC,
	"dr":    DST_DR,
	"ir":    DST_IR,
	"ip":    DST_IP,
	"ar":    DST_AR,
	"state": DST_STATE,
	"_":     DST_DISCARD,
}

// aluMap maps two-operand ALU opcode names.
var aluMap = map[string]Op{
	"add": OP_ADD,
	"sub": OP_SUB,
	"and": OP_AND,
	"or":  OP_OR,
	"xor": OP_XOR,
}

// modMap maps modifier names, per ALU operation.
var modMap = map[Op]map[string]uint8{
	OP_ADD: {"inc": MOD_INC, "carry": MOD_CARRY},
	OP_SUB: {"borrow": MOD_BORROW, "m1": 0x2},
	OP_AND: {"~l": MOD_NOT_L, "~r": MOD_NOT_R},
	OP_OR:  {"~l": MOD_NOT_L, "~r": MOD_NOT_R},
	OP_XOR: {"~l": MOD_NOT_L, "~r": MOD_NOT_R},
}

// ioMap maps controller operation names.
var ioMap = map[string]IoOp{
	"clf": IO_CLEAR,
	"tsf": IO_SENSE,
	"in":  IO_IN,
	"out": IO_OUT,
}

// flagOpMap maps status flag operation names.
var flagOpMap = map[string]FlagOp{
	"clc": FLAG_OP_CLC,
	"stc": FLAG_OP_STC,
	"cmc": FLAG_OP_CMC,
	"clt": FLAG_OP_CLT,
	"stt": FLAG_OP_STT,
}

// flagMap maps branch condition names.
var flagMap = map[string]Flag{
	"z":      FLAG_Z,
	"n":      FLAG_N,
	"c":      FLAG_C,
	"t":      FLAG_T,
	"f":      FLAG_F,
	"run":    FLAG_RUN,
	"always": FLAG_ALWAYS,
	"never":  FLAG_NEVER,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil || v64 > 0xffff || v64 < -0x8000 {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	globals := make(map[string]int64, len(asm.Equate))
	for key, str := range asm.Equate {
		value16, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-integer equates.
			continue
		}
		globals[key] = int64(value16)
	}

	v64, err := internal.Evaluate(expr, globals)
	if errors.Is(err, internal.ErrNotInteger) {
		err = ErrParseExpression(expr)
	}
	if err != nil {
		return
	}

	value = uint16(v64)

	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine parses a single line into words, handling equates, labels,
// and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.mip
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per expansion.
		local := fmt.Sprintf("%v_%v_", name, asm.mip)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err == nil {
				err = asm.parseWords(words, lineno)
			}
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.mip = 0
	clear(asm.used[:])

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("microcode: %v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   words[2:],
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of branch targets.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		mip, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		op.Code |= uint16(mip&0xff) << 4
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}

// target resolves a branch target, returning a label to link if it is
// not yet known.
func (asm *Assembler) target(word string) (mip uint8, label string, err error) {
	addr, ok := asm.Label[word]
	if ok {
		mip = uint8(addr)
		return
	}

	value, verr := asm.valueOf(word)
	if verr == nil {
		if value >= memory.MICRO_SIZE {
			err = ErrAddressInvalid
			return
		}
		mip = uint8(value)
		return
	}

	label = word
	return
}

// source looks up an ALU input.
func source(word string) (src Source, err error) {
	src, ok := srcMap[word]
	if !ok {
		err = ErrSourceInvalid
	}
	return
}

// argCount checks the word count of an instruction.
func argCount(words []string, least, most int) (err error) {
	switch {
	case len(words) < least:
		err = ErrOpcodeValueMissing
	case len(words) > most:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of micro-assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if words[0] == ".org" {
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value uint16
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if value >= memory.MICRO_SIZE {
			err = ErrOrgInvalid
			return
		}
		asm.mip = int(value)
		return
	}

	var code uint16
	var label string

	switch name := words[0]; name {
	case "add", "sub", "and", "or", "xor":
		err = argCount(words, 4, 6)
		if err != nil {
			return
		}
		op := aluMap[name]
		dest, ok := dstMap[words[1]]
		if !ok {
			err = ErrTargetInvalid
			return
		}
		var left, right Source
		left, err = source(words[2])
		if err != nil {
			return
		}
		right, err = source(words[3])
		if err != nil {
			return
		}
		var mod uint8
		for _, word := range words[4:] {
			bit, ok := modMap[op][word]
			if !ok {
				err = ErrModifierInvalid
				return
			}
			mod |= bit
		}
		code = MakeAlu(op, dest, left, right, mod)
	case "mov", "shl", "shr":
		err = argCount(words, 3, 4)
		if err != nil {
			return
		}
		dest, ok := dstMap[words[1]]
		if !ok {
			err = ErrTargetInvalid
			return
		}
		var left Source
		left, err = source(words[2])
		if err != nil {
			return
		}
		op := OP_SHIFT
		var mod uint8
		if name == "mov" {
			op = OP_MOV
		}
		if name == "shr" {
			mod |= MOD_RIGHT
		}
		if len(words) == 4 {
			switch {
			case op == OP_MOV && words[3] == "~":
				mod |= MOD_NOT
			case op == OP_SHIFT && words[3] == "rot":
				mod |= MOD_ROTATE
			default:
				err = ErrModifierInvalid
				return
			}
		}
		code = MakeAlu(op, dest, left, SRC_ZERO, mod)
	case "nop", "read", "write":
		err = argCount(words, 1, 1)
		if err != nil {
			return
		}
		sys := map[string]SysOp{"nop": SYS_NOP, "read": SYS_READ, "write": SYS_WRITE}[name]
		code = MakeSys(sys, 0)
	case "clc", "stc", "cmc", "clt", "stt":
		err = argCount(words, 1, 1)
		if err != nil {
			return
		}
		code = MakeFlag(flagOpMap[name])
	case "test":
		err = argCount(words, 3, 3)
		if err != nil {
			return
		}
		var src Source
		src, err = source(words[1])
		if err != nil {
			return
		}
		var bit uint16
		bit, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		if bit > 15 {
			err = ErrBitInvalid
			return
		}
		code = MakeTest(src, uint8(bit))
	case "io":
		err = argCount(words, 3, 4)
		if err != nil {
			return
		}
		op, ok := ioMap[words[1]]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		var indirect bool
		var device uint16
		if words[2] == "ir" {
			indirect = true
		} else {
			device, err = asm.valueOf(words[2])
			if err != nil {
				return
			}
			if device > 15 {
				err = ErrDeviceInvalid
				return
			}
		}
		var clear bool
		if len(words) == 4 {
			if words[3] != "clear" {
				err = ErrModifierInvalid
				return
			}
			clear = true
		}
		code = MakeIo(op, clear, indirect, uint8(device))
	case "jump":
		err = argCount(words, 2, 2)
		if err != nil {
			return
		}
		var mip uint8
		mip, label, err = asm.target(words[1])
		if err != nil {
			return
		}
		code = MakeJump(mip)
	case "if":
		err = argCount(words, 3, 4)
		if err != nil {
			return
		}
		flagName, invert := strings.CutPrefix(words[1], "!")
		flag, ok := flagMap[flagName]
		if !ok {
			err = ErrFlagInvalid
			return
		}
		var halt bool
		if len(words) == 4 {
			if words[3] != "halt" {
				err = ErrModifierInvalid
				return
			}
			halt = true
		}
		var mip uint8
		mip, label, err = asm.target(words[2])
		if err != nil {
			return
		}
		code = MakeCond(flag, invert, mip, halt)
	case "halt":
		err = argCount(words, 1, 2)
		if err != nil {
			return
		}
		var mip uint8
		if len(words) == 2 {
			mip, label, err = asm.target(words[1])
			if err != nil {
				return
			}
		}
		code = MakeHalt(mip)
	case ".word":
		err = argCount(words, 2, 2)
		if err != nil {
			return
		}
		code, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
	default:
		err = ErrInstructionInvalid
		return
	}

	if asm.mip >= memory.MICRO_SIZE {
		err = ErrAddressInvalid
		return
	}
	if asm.used[asm.mip] {
		err = ErrAddressOverlap
		return
	}
	asm.used[asm.mip] = true

	opcode := Opcode{LineNo: lineno, Mip: asm.mip, Words: words, Code: code, LinkLabel: label}
	asm.Opcode = append(asm.Opcode, opcode)
	asm.mip++

	return
}
