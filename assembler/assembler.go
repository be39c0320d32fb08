// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package assembler translates Basic Computer assembly text into a program
// image for main memory.
//
// Numbers are hexadecimal, and must start with a decimal digit. Labels
// start with a letter and are case insensitive. A parenthesized address
// operand is indirect.
//
//	        ORG 10
//	BEGIN:  CLA
//	        ADD A
//	        ADD (PB)
//	        MOV R
//	        HLT
//	A:      WORD ?
//	PB:     WORD B
//	B:      WORD 7
//	R:      WORD 0
//	        END
package assembler

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
	"unicode"

	"github.com/ezrec/bcomp/internal"
	"github.com/ezrec/bcomp/memory"
)

// BEGIN_LABEL marks the first instruction of a program.
const BEGIN_LABEL = "BEGIN"

var reLabel = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a two pass assembler for Basic Computer programs.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Word    []Word            // List of assembled words.
	Label   map[string]uint16 // Map of labels to addresses.

	arguments []string
	addr      int
	used      [memory.MAIN_SIZE]bool
}

// Compile assembles program text.
func Compile(source string) (prog *Program, err error) {
	asm := &Assembler{}
	prog, err = asm.Parse(strings.NewReader(source))
	return
}

// parenEval does compile-time $(...) evaluations, with the labels
// defined so far.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	globals := make(map[string]int64, len(asm.Label))
	for label, addr := range asm.Label {
		globals[label] = int64(addr)
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

// valueOf returns the value of a word, or the label to link for it.
func valueOf(word string) (value uint16, label string, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	first := rune(word[0])
	if unicode.IsDigit(first) || first == '-' {
		digits := strings.Replace(word, "0X", "", 1)
		v64, perr := strconv.ParseInt(digits, 16, 32)
		if perr != nil || v64 > 0xffff || v64 < -0x8000 {
			err = ErrParseNumber(word)
			return
		}
		value = uint16(v64)
		return
	}

	if !reLabel.MatchString(word) {
		err = ErrParseNumber(word)
		return
	}

	label = word

	return
}

// Parse assembles an input stream into a Program.
// Assembly stops at the END directive, or at the end of the input.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Word = asm.Word[:0]
	asm.Label = make(map[string]uint16, 16)
	asm.arguments = nil
	asm.addr = 0
	clear(asm.used[:])

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("assembler: %v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		var end bool
		end, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if end {
			break
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of label references.
	for n := range asm.Word {
		word := &asm.Word[n]

		if len(word.LinkLabel) == 0 {
			continue
		}

		addr, ok := asm.Label[word.LinkLabel]
		if !ok {
			lineno = word.LineNo
			line = strings.Join(word.Words, " ")
			err = ErrLabelMissing(word.LinkLabel)
			return
		}
		if addr&^word.linkMask != 0 {
			lineno = word.LineNo
			line = strings.Join(word.Words, " ")
			err = ErrAddressInvalid
			return
		}
		word.Code |= addr
	}

	prog = &Program{
		Words:     slices.Clone(asm.Word),
		Label:     maps.Clone(asm.Label),
		arguments: slices.Clone(asm.arguments),
	}

	begin, ok := asm.Label[BEGIN_LABEL]
	if ok {
		prog.begin = begin
	} else if len(asm.Word) > 0 {
		prog.begin = asm.Word[0].Addr
	}

	return
}

// parseLine assembles a single line of text.
func (asm *Assembler) parseLine(line string, lineno int) (end bool, err error) {
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

	words := strings.Fields(strings.ToUpper(line))

	var labels []string
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = uint16(asm.addr)
		labels = append(labels, label)
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	switch words[0] {
	case "END":
		if len(words) != 1 {
			err = ErrOperandExtra
			return
		}
		end = true
	case "ORG":
		if len(words) != 2 || len(labels) != 0 {
			err = ErrOrgSyntax
			return
		}
		var value uint16
		var label string
		value, label, err = valueOf(words[1])
		if err != nil {
			return
		}
		if len(label) != 0 {
			err = ErrOrgSyntax
			return
		}
		if value >= memory.MAIN_SIZE {
			err = ErrOrgInvalid
			return
		}
		asm.addr = int(value)
	case "WORD":
		err = asm.parseWord(words, labels, lineno)
	default:
		err = asm.parseInstruction(words, lineno)
	}

	return
}

// parseWord assembles data cells: WORD value[, value...]
func (asm *Assembler) parseWord(words []string, labels []string, lineno int) (err error) {
	values := strings.Split(strings.Join(words[1:], ""), ",")
	if len(values) == 0 || len(values[0]) == 0 {
		err = ErrWordSyntax
		return
	}

	for n, value := range values {
		if value == WORD_ARGUMENT {
			if n == 0 {
				asm.arguments = append(asm.arguments, labels...)
			}
			err = asm.emit(lineno, words, 0, "", 0, true)
			if err != nil {
				return
			}
			continue
		}

		var code uint16
		var label string
		code, label, err = valueOf(value)
		if err != nil {
			return
		}
		err = asm.emit(lineno, words, code, label, 0xffff, true)
		if err != nil {
			return
		}
	}

	return
}

// parseInstruction assembles an instruction.
func (asm *Assembler) parseInstruction(words []string, lineno int) (err error) {
	mn, ok := Mnemonics[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	switch {
	case mn.Operand == OPERAND_NONE && len(words) > 1:
		err = ErrOperandExtra
		return
	case mn.Operand != OPERAND_NONE && len(words) < 2:
		err = ErrOperandMissing
		return
	case len(words) > 2:
		err = ErrOperandExtra
		return
	}

	code := mn.Code
	var label string

	switch mn.Operand {
	case OPERAND_ADDRESS:
		operand := words[1]
		if strings.HasPrefix(operand, "(") && strings.HasSuffix(operand, ")") {
			operand = operand[1 : len(operand)-1]
			code |= INDIRECT_BIT
		}
		var addr uint16
		addr, label, err = valueOf(operand)
		if err != nil {
			return
		}
		if addr&^ADDRESS_MASK != 0 {
			err = ErrAddressInvalid
			return
		}
		code |= addr
	case OPERAND_DEVICE:
		var device uint16
		device, label, err = valueOf(words[1])
		if err != nil {
			return
		}
		if len(label) != 0 || device&^DEVICE_MASK != 0 {
			err = ErrDeviceInvalid
			return
		}
		code |= device
	}

	err = asm.emit(lineno, words, code, label, ADDRESS_MASK, false)

	return
}

// emit places a word at the current address.
func (asm *Assembler) emit(lineno int, words []string, code uint16, label string, mask uint16, data bool) (err error) {
	if asm.addr >= memory.MAIN_SIZE {
		err = ErrAddressInvalid
		return
	}
	if asm.used[asm.addr] {
		err = ErrAddressOverlap
		return
	}
	asm.used[asm.addr] = true

	word := Word{
		LineNo:    lineno,
		Addr:      uint16(asm.addr),
		Words:     words,
		Code:      code,
		LinkLabel: label,
		Data:      data,
		linkMask:  mask,
	}
	asm.Word = append(asm.Word, word)
	asm.addr++

	return
}
