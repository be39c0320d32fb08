package microcode

import (
	"fmt"
	"strings"
)

// CT is the control transfer field of a micro-instruction.
type CT int

//go:generate go tool stringer -linecomment -type=CT
const (
	CT_SEQUENTIAL  = CT(0) // seq
	CT_CONDITIONAL = CT(1) // cond
	CT_JUMP        = CT(2) // jump
	CT_RESERVED    = CT(3) // reserved
)

// Op is a data path operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD   = Op(0) // add
	OP_SUB   = Op(1) // sub
	OP_AND   = Op(2) // and
	OP_OR    = Op(3) // or
	OP_XOR   = Op(4) // xor
	OP_MOV   = Op(5) // mov
	OP_SHIFT = Op(6) // shift
	OP_SYS   = Op(7) // sys
)

// Source is an ALU input channel.
type Source int

//go:generate go tool stringer -linecomment -type=Source
const (
	SRC_ZERO = Source(0) // 0
	SRC_AC   = Source(1) // ac
	SRC_DR   = Source(2) // dr
	SRC_IR   = Source(3) // ir
	SRC_IP   = Source(4) // ip
	SRC_AR   = Source(5) // ar
	SRC_KEY  = Source(6) // key
	SRC_ADDR = Source(7) // addr
)

// ADDR_MASK selects the operand address field of IR.
const ADDR_MASK = 0x07ff

// Dest is an ALU output channel.
type Dest int

//go:generate go tool stringer -linecomment -type=Dest
const (
	DST_NONE    = Dest(0) // -
	DST_AC      = Dest(1) // ac
	DST_DR      = Dest(2) // dr
	DST_IR      = Dest(3) // ir
	DST_IP      = Dest(4) // ip
	DST_AR      = Dest(5) // ar
	DST_STATE   = Dest(6) // state
	DST_DISCARD = Dest(7) // _
)

// Modifier bits of an ALU operation.
const (
	MOD_INC    = 1 << 0 // add: carry in of one
	MOD_CARRY  = 1 << 1 // add: carry in of C
	MOD_BORROW = 1 << 0 // sub: no implicit +1
	MOD_NOT_L  = 1 << 0 // and, or, xor: complement left
	MOD_NOT_R  = 1 << 1 // and, or, xor: complement right
	MOD_NOT    = 1 << 0 // mov: complement
	MOD_RIGHT  = 1 << 0 // shift: right instead of left
	MOD_ROTATE = 1 << 1 // shift: rotate through C
)

// SysOp is a system operation, selected when Op is OP_SYS.
type SysOp int

//go:generate go tool stringer -linecomment -type=SysOp
const (
	SYS_NOP   = SysOp(0) // nop
	SYS_READ  = SysOp(1) // read
	SYS_WRITE = SysOp(2) // write
	SYS_TEST  = SysOp(3) // test
	SYS_IO    = SysOp(4) // io
	SYS_FLAG  = SysOp(5) // flag
	SYS_NOP6  = SysOp(6) // nop6
	SYS_NOP7  = SysOp(7) // nop7
)

// IoOp is a controller operation.
type IoOp int

//go:generate go tool stringer -linecomment -type=IoOp
const (
	IO_CLEAR = IoOp(0) // clf
	IO_SENSE = IoOp(1) // tsf
	IO_IN    = IoOp(2) // in
	IO_OUT   = IoOp(3) // out
)

// FlagOp is a status flag operation.
type FlagOp int

//go:generate go tool stringer -linecomment -type=FlagOp
const (
	FLAG_OP_CLC = FlagOp(0) // clc
	FLAG_OP_STC = FlagOp(1) // stc
	FLAG_OP_CMC = FlagOp(2) // cmc
	FLAG_OP_CLT = FlagOp(3) // clt
	FLAG_OP_STT = FlagOp(4) // stt
)

// Flag selects the condition of a conditional micro-instruction.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_Z      = Flag(0) // z
	FLAG_N      = Flag(1) // n
	FLAG_C      = Flag(2) // c
	FLAG_T      = Flag(3) // t
	FLAG_F      = Flag(4) // f
	FLAG_RUN    = Flag(5) // run
	FLAG_ALWAYS = Flag(6) // always
	FLAG_NEVER  = Flag(7) // never
)

// Fields are the operation selection bits 13-0 of a sequential word.
type Fields uint16

// Op returns the data path operation.
func (fl Fields) Op() Op {
	return Op((fl >> 11) & 0x7)
}

// AluDecode decodes an ALU operation.
func (fl Fields) AluDecode() (op Op, dest Dest, left, right Source, mod uint8) {
	op = fl.Op()
	left = Source((fl >> 8) & 0x7)
	right = Source((fl >> 5) & 0x7)
	dest = Dest((fl >> 2) & 0x7)
	mod = uint8(fl & 0x3)
	return
}

// Sys returns the system operation.
func (fl Fields) Sys() SysOp {
	return SysOp((fl >> 8) & 0x7)
}

// TestDecode decodes a bit test.
func (fl Fields) TestDecode() (src Source, bit uint8) {
	src = Source((fl >> 5) & 0x7)
	bit = uint8(fl & 0xf)
	return
}

// IoDecode decodes a controller operation.
// When indirect is set, the device index comes from IR[7:0].
func (fl Fields) IoDecode() (op IoOp, clear bool, indirect bool, device uint8) {
	op = IoOp((fl >> 6) & 0x3)
	clear = (fl>>5)&1 != 0
	indirect = (fl>>4)&1 != 0
	device = uint8(fl & 0xf)
	return
}

// FlagDecode decodes a status flag operation.
func (fl Fields) FlagDecode() FlagOp {
	return FlagOp(fl & 0x7)
}

// String returns the micro-assembler text of the fields.
func (fl Fields) String() string {
	op, dest, left, right, mod := fl.AluDecode()

	switch op {
	case OP_SYS:
		// Handled below.
	case OP_MOV:
		str := fmt.Sprintf("mov %v %v", dest, left)
		if mod&MOD_NOT != 0 {
			str += " ~"
		}
		return str
	case OP_SHIFT:
		name := "shl"
		if mod&MOD_RIGHT != 0 {
			name = "shr"
		}
		str := fmt.Sprintf("%v %v %v", name, dest, left)
		if mod&MOD_ROTATE != 0 {
			str += " rot"
		}
		return str
	default:
		words := []string{op.String(), dest.String(), left.String(), right.String()}
		words = append(words, modNames(op, mod)...)
		return strings.Join(words, " ")
	}

	switch sys := fl.Sys(); sys {
	case SYS_TEST:
		src, bit := fl.TestDecode()
		return fmt.Sprintf("test %v %d", src, bit)
	case SYS_IO:
		op, clear, indirect, device := fl.IoDecode()
		str := fmt.Sprintf("io %v %d", op, device)
		if indirect {
			str = fmt.Sprintf("io %v ir", op)
		}
		if clear {
			str += " clear"
		}
		return str
	case SYS_FLAG:
		flop := fl.FlagDecode()
		if flop > FLAG_OP_STT {
			return "nop"
		}
		return flop.String()
	case SYS_NOP6, SYS_NOP7:
		return "nop"
	default:
		return sys.String()
	}
}

// modNames returns the modifier keywords of an ALU operation.
func modNames(op Op, mod uint8) (names []string) {
	switch op {
	case OP_ADD:
		if mod&MOD_INC != 0 {
			names = append(names, "inc")
		}
		if mod&MOD_CARRY != 0 {
			names = append(names, "carry")
		}
	case OP_SUB:
		if mod&MOD_BORROW != 0 {
			names = append(names, "borrow")
		}
		if mod&0x2 != 0 {
			names = append(names, "m1")
		}
	case OP_AND, OP_OR, OP_XOR:
		if mod&MOD_NOT_L != 0 {
			names = append(names, "~l")
		}
		if mod&MOD_NOT_R != 0 {
			names = append(names, "~r")
		}
	}
	return
}

// Instruction is a decoded micro-instruction.
type Instruction interface {
	// CT returns the control transfer kind.
	CT() CT
	// Word returns the encoded micro-instruction.
	Word() uint16
	// String returns the micro-assembler text.
	String() string
}

// Sequential drives the data path, then continues at MIP+1.
type Sequential struct {
	Fields Fields
}

// Jump continues at Target.
type Jump struct {
	Target uint8
}

// ConditionalOrHalt continues at Target when Flag (inverted by Invert) is
// set, otherwise at MIP+1. When Halt is set, the micro-routine ends after
// the branch.
type ConditionalOrHalt struct {
	Flag   Flag
	Invert bool
	Target uint8
	Halt   bool
}

// Reserved does nothing and continues at MIP+1.
type Reserved struct {
	Bits uint16
}

func (seq Sequential) CT() CT { return CT_SEQUENTIAL }

func (seq Sequential) Word() uint16 { return uint16(seq.Fields) & 0x3fff }

func (seq Sequential) String() string { return seq.Fields.String() }

func (jmp Jump) CT() CT { return CT_JUMP }

func (jmp Jump) Word() uint16 { return MakeJump(jmp.Target) }

func (jmp Jump) String() string { return fmt.Sprintf("jump 0x%02x", jmp.Target) }

func (rsv Reserved) CT() CT { return CT_RESERVED }

func (rsv Reserved) Word() uint16 { return (uint16(CT_RESERVED) << 14) | (rsv.Bits & 0x3fff) }

func (rsv Reserved) String() string { return fmt.Sprintf(".word 0x%04x", rsv.Word()) }

func (cnd ConditionalOrHalt) CT() CT { return CT_CONDITIONAL }

func (cnd ConditionalOrHalt) Word() uint16 {
	return MakeCond(cnd.Flag, cnd.Invert, cnd.Target, cnd.Halt)
}

func (cnd ConditionalOrHalt) String() string {
	if cnd.Halt && cnd.Flag == FLAG_ALWAYS && !cnd.Invert {
		return fmt.Sprintf("halt 0x%02x", cnd.Target)
	}

	flag := cnd.Flag.String()
	if cnd.Invert {
		flag = "!" + flag
	}

	str := fmt.Sprintf("if %v 0x%02x", flag, cnd.Target)
	if cnd.Halt {
		str += " halt"
	}

	return str
}

// Decode decodes a micro-instruction. Every word decodes.
func Decode(word uint16) (inst Instruction) {
	switch CT(word >> 14) {
	case CT_SEQUENTIAL:
		inst = Sequential{Fields: Fields(word & 0x3fff)}
	case CT_JUMP:
		inst = Jump{Target: uint8(word >> 4)}
	case CT_CONDITIONAL:
		inst = ConditionalOrHalt{
			Flag:   Flag(word & 0x7),
			Invert: (word>>12)&1 != 0,
			Target: uint8(word >> 4),
			Halt:   (word>>3)&1 != 0,
		}
	default:
		inst = Reserved{Bits: word & 0x3fff}
	}

	return
}

// MakeAlu creates a sequential ALU micro-instruction.
func MakeAlu(op Op, dest Dest, left, right Source, mod uint8) uint16 {
	return (uint16(op&0x7) << 11) |
		(uint16(left&0x7) << 8) |
		(uint16(right&0x7) << 5) |
		(uint16(dest&0x7) << 2) |
		uint16(mod&0x3)
}

// MakeSys creates a sequential system micro-instruction.
func MakeSys(sys SysOp, arg uint8) uint16 {
	return (uint16(OP_SYS) << 11) | (uint16(sys&0x7) << 8) | uint16(arg)
}

// MakeTest creates a bit test of a source into T.
func MakeTest(src Source, bit uint8) uint16 {
	return MakeSys(SYS_TEST, (uint8(src&0x7)<<5)|(bit&0xf))
}

// MakeIo creates a controller operation.
func MakeIo(op IoOp, clear bool, indirect bool, device uint8) uint16 {
	arg := (uint8(op&0x3) << 6) | (device & 0xf)
	if clear {
		arg |= 1 << 5
	}
	if indirect {
		arg |= 1 << 4
	}
	return MakeSys(SYS_IO, arg)
}

// MakeFlag creates a status flag operation.
func MakeFlag(flop FlagOp) uint16 {
	return MakeSys(SYS_FLAG, uint8(flop&0x7))
}

// MakeJump creates an unconditional jump.
func MakeJump(target uint8) uint16 {
	return (uint16(CT_JUMP) << 14) | (uint16(target) << 4)
}

// MakeCond creates a conditional branch, with an optional halt.
func MakeCond(flag Flag, invert bool, target uint8, halt bool) uint16 {
	word := (uint16(CT_CONDITIONAL) << 14) | (uint16(target) << 4) | uint16(flag&0x7)
	if invert {
		word |= 1 << 12
	}
	if halt {
		word |= 1 << 3
	}
	return word
}

// MakeHalt creates a halt which continues at target.
func MakeHalt(target uint8) uint16 {
	return MakeCond(FLAG_ALWAYS, false, target, true)
}
