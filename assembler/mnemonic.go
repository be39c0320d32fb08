package assembler

import (
	"fmt"
)

// Operand is the kind of operand an instruction takes.
type Operand int

const (
	OPERAND_NONE    = Operand(0) // No operand.
	OPERAND_ADDRESS = Operand(1) // Main memory address, optionally indirect.
	OPERAND_DEVICE  = Operand(2) // I/O device number.
)

const (
	ADDRESS_MASK  = uint16(0x07ff) // Operand address field.
	INDIRECT_BIT  = uint16(0x0800) // Operand address is indirect.
	DEVICE_MASK   = uint16(0x00ff) // Device number field.
	WORD_ARGUMENT = "?"            // Program argument cell.
)

// Mnemonic describes an instruction of the Basic Computer.
type Mnemonic struct {
	Code    uint16
	Operand Operand
}

// Mnemonics of the Basic Computer instruction set.
var Mnemonics = map[string]Mnemonic{
	"ISZ": {0x0000, OPERAND_ADDRESS},
	"AND": {0x1000, OPERAND_ADDRESS},
	"JSR": {0x2000, OPERAND_ADDRESS},
	"MOV": {0x3000, OPERAND_ADDRESS},
	"ADD": {0x4000, OPERAND_ADDRESS},
	"ADC": {0x5000, OPERAND_ADDRESS},
	"SUB": {0x6000, OPERAND_ADDRESS},
	"BCS": {0x8000, OPERAND_ADDRESS},
	"BPL": {0x9000, OPERAND_ADDRESS},
	"BMI": {0xa000, OPERAND_ADDRESS},
	"BEQ": {0xb000, OPERAND_ADDRESS},
	"BR":  {0xc000, OPERAND_ADDRESS},
	"CLF": {0xe000, OPERAND_DEVICE},
	"TSF": {0xe100, OPERAND_DEVICE},
	"IN":  {0xe200, OPERAND_DEVICE},
	"OUT": {0xe300, OPERAND_DEVICE},
	"HLT": {0xf000, OPERAND_NONE},
	"NOP": {0xf100, OPERAND_NONE},
	"CLA": {0xf200, OPERAND_NONE},
	"CLC": {0xf300, OPERAND_NONE},
	"CMA": {0xf400, OPERAND_NONE},
	"CMC": {0xf500, OPERAND_NONE},
	"ROL": {0xf600, OPERAND_NONE},
	"ROR": {0xf700, OPERAND_NONE},
	"INC": {0xf800, OPERAND_NONE},
	"DEC": {0xf900, OPERAND_NONE},
}

var disassembly map[uint16]string

func init() {
	disassembly = make(map[uint16]string, len(Mnemonics))
	for name, mn := range Mnemonics {
		disassembly[mn.Code] = name
	}
}

// Disassemble returns the assembly text of an instruction word.
// Words that are not instructions are shown as WORD values.
func Disassemble(code uint16) (text string) {
	switch code >> 12 {
	case 0x7, 0xd:
	case 0xe:
		name, ok := disassembly[code&0xff00]
		if ok {
			return fmt.Sprintf("%v %X", name, code&DEVICE_MASK)
		}
	case 0xf:
		name, ok := disassembly[code&0xff00]
		if ok {
			return name
		}
	default:
		name := disassembly[code&0xf000]
		if code&INDIRECT_BIT != 0 {
			return fmt.Sprintf("%v (%03X)", name, code&ADDRESS_MASK)
		}
		return fmt.Sprintf("%v %03X", name, code&ADDRESS_MASK)
	}

	return fmt.Sprintf("WORD %04X", code)
}
