package cpu

import (
	"github.com/ezrec/bcomp/microcode"
	"github.com/ezrec/bcomp/register"
)

// FlagUpdate is a change to the status flags of STATE.
type FlagUpdate struct {
	Mask  uint16 // Flags changed.
	Value uint16 // New values of the changed flags.
}

// Apply returns state with the update applied.
// The RUN bit is never changed.
func (fu FlagUpdate) Apply(state uint16) uint16 {
	mask := fu.Mask & STATE_FLAGS
	return (state &^ mask) | (fu.Value & mask)
}

// set records a flag change.
func (fu *FlagUpdate) set(flag uint16, on bool) {
	fu.Mask |= flag
	if on {
		fu.Value |= flag
	} else {
		fu.Value &^= flag
	}
}

// destMap maps writable ALU outputs to registers.
var destMap = map[microcode.Dest]register.ID{
	microcode.DST_AC: register.AC,
	microcode.DST_DR: register.DR,
	microcode.DST_IR: register.IR,
	microcode.DST_IP: register.IP,
	microcode.DST_AR: register.AR,
}

// source returns the value of an ALU input.
func (cpu *Cpu) source(src microcode.Source) (value uint32) {
	switch src {
	case microcode.SRC_AC:
		value = cpu.Register.Read(register.AC)
	case microcode.SRC_DR:
		value = cpu.Register.Read(register.DR)
	case microcode.SRC_IR:
		value = cpu.Register.Read(register.IR)
	case microcode.SRC_IP:
		value = cpu.Register.Read(register.IP)
	case microcode.SRC_AR:
		value = cpu.Register.Read(register.AR)
	case microcode.SRC_KEY:
		value = cpu.Register.Read(register.KEY)
	case microcode.SRC_ADDR:
		value = cpu.Register.Read(register.IR) & microcode.ADDR_MASK
	}

	return
}

// Execute performs one register transfer cycle.
//
// Registers and memory are updated directly. Changes to the status flags
// are returned, to be applied to STATE by the caller.
func (cpu *Cpu) Execute(fields microcode.Fields) (update FlagUpdate) {
	op, dest, left, right, mod := fields.AluDecode()
	if op == microcode.OP_SYS {
		update = cpu.executeSys(fields)
		return
	}

	carry := cpu.State()&STATE_C != 0
	result := doAlu(op, cpu.source(left), cpu.source(right), mod, carry)

	cpu.Register.Write(register.BR, result)

	value := result & 0xffff
	switch dest {
	case microcode.DST_STATE:
		update = FlagUpdate{Mask: STATE_FLAGS, Value: uint16(value)}
	case microcode.DST_NONE, microcode.DST_DISCARD:
		// BR only.
	default:
		cpu.Register.Write(destMap[dest], value)
	}

	if dest == microcode.DST_AC {
		update.set(STATE_Z, value == 0)
		update.set(STATE_N, value&0x8000 != 0)
		switch op {
		case microcode.OP_ADD, microcode.OP_SUB, microcode.OP_SHIFT:
			update.set(STATE_C, result&0x10000 != 0)
		}
	}

	return
}

// doAlu performs the requested ALU action on 16-bit inputs, and returns
// the 17-bit output. Bit 16 is the carry out.
func doAlu(op microcode.Op, left, right uint32, mod uint8, carry bool) (output uint32) {
	var cin uint32
	if carry {
		cin = 1
	}

	switch op {
	case microcode.OP_ADD:
		if mod&microcode.MOD_INC != 0 {
			output++
		}
		if mod&microcode.MOD_CARRY != 0 {
			output += cin
		}
		output += left + right
	case microcode.OP_SUB:
		output = left + (^right & 0xffff)
		if mod&microcode.MOD_BORROW == 0 {
			output++
		}
	case microcode.OP_AND, microcode.OP_OR, microcode.OP_XOR:
		if mod&microcode.MOD_NOT_L != 0 {
			left = ^left & 0xffff
		}
		if mod&microcode.MOD_NOT_R != 0 {
			right = ^right & 0xffff
		}
		switch op {
		case microcode.OP_AND:
			output = left & right
		case microcode.OP_OR:
			output = left | right
		default:
			output = left ^ right
		}
	case microcode.OP_MOV:
		output = left
		if mod&microcode.MOD_NOT != 0 {
			output = ^left & 0xffff
		}
	case microcode.OP_SHIFT:
		var in uint32
		if mod&microcode.MOD_ROTATE != 0 {
			in = cin
		}
		if mod&microcode.MOD_RIGHT != 0 {
			output = (left >> 1) | (in << 15) | ((left & 1) << 16)
		} else {
			output = (left << 1) | in
		}
	}

	return
}

// executeSys performs a system operation.
func (cpu *Cpu) executeSys(fields microcode.Fields) (update FlagUpdate) {
	switch fields.Sys() {
	case microcode.SYS_READ:
		addr := cpu.Register.Read(register.AR)
		cpu.Register.Write(register.DR, uint32(cpu.Memory.ReadMain(addr)))
	case microcode.SYS_WRITE:
		addr := cpu.Register.Read(register.AR)
		cpu.Memory.WriteMain(addr, uint16(cpu.Register.Read(register.DR)))
	case microcode.SYS_TEST:
		src, bit := fields.TestDecode()
		update.set(STATE_T, (cpu.source(src)>>bit)&1 != 0)
	case microcode.SYS_IO:
		update = cpu.executeIo(fields)
	case microcode.SYS_FLAG:
		state := cpu.State()
		switch fields.FlagDecode() {
		case microcode.FLAG_OP_CLC:
			update.set(STATE_C, false)
		case microcode.FLAG_OP_STC:
			update.set(STATE_C, true)
		case microcode.FLAG_OP_CMC:
			update.set(STATE_C, state&STATE_C == 0)
		case microcode.FLAG_OP_CLT:
			update.set(STATE_T, false)
		case microcode.FLAG_OP_STT:
			update.set(STATE_T, true)
		}
	}

	return
}

// executeIo performs a controller operation.
func (cpu *Cpu) executeIo(fields microcode.Fields) (update FlagUpdate) {
	op, clear, indirect, device := fields.IoDecode()

	index := uint32(device)
	if indirect {
		index = cpu.Register.Read(register.IR) & 0xff
	}

	switch op {
	case microcode.IO_CLEAR:
		cpu.Bus.ClearReady(index)
	case microcode.IO_SENSE:
		update.set(STATE_F, cpu.Bus.GetReady(index))
	case microcode.IO_IN:
		ac := cpu.Register.Read(register.AC) &^ 0xff
		cpu.Register.Write(register.AC, ac|uint32(cpu.Bus.GetData(index)&0xff))
	case microcode.IO_OUT:
		cpu.Bus.SetData(index, uint16(cpu.Register.Read(register.AC)&0xff))
	}

	if clear {
		cpu.Bus.ClearReady(index)
	}

	return
}
