package cpu6502

import "github.com/emu502/emu502/emu"

// execute runs the semantic effect of one decoded instruction. It returns
// whether an indexed/branch access crossed a page boundary (so the caller
// can apply the table's PageCycles bonus), any cycle bonus the table does
// not already encode (currently just the branch-taken cycle), and a Halt
// if the instruction was BRK or turned out to be illegal.
func (cpu *Cpu) execute(op Opcode, operand []byte, pc uint16) (pageCrossed bool, extraCycle byte, halt Halt, err error) {
	switch op.Mnemonic {
	case "ADC":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.adc(v)
		return crossed, 0, nil, nil
	case "SBC":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.sbc(v)
		return crossed, 0, nil, nil
	case "AND":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.A &= v
		cpu.Reg.SetNZ(cpu.Reg.A)
		return crossed, 0, nil, nil
	case "ORA":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.A |= v
		cpu.Reg.SetNZ(cpu.Reg.A)
		return crossed, 0, nil, nil
	case "EOR":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.A ^= v
		cpu.Reg.SetNZ(cpu.Reg.A)
		return crossed, 0, nil, nil
	case "ASL":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		out, carry := asl(v)
		cpu.Reg.Set(FlagCarry, carry)
		cpu.Reg.SetNZ(out)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, out)
	case "LSR":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		out, carry := lsr(v)
		cpu.Reg.Set(FlagCarry, carry)
		cpu.Reg.SetNZ(out)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, out)
	case "ROL":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		out, carry := rol(v, cpu.Reg.Has(FlagCarry))
		cpu.Reg.Set(FlagCarry, carry)
		cpu.Reg.SetNZ(out)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, out)
	case "ROR":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		out, carry := ror(v, cpu.Reg.Has(FlagCarry))
		cpu.Reg.Set(FlagCarry, carry)
		cpu.Reg.SetNZ(out)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, out)
	case "BIT":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.Set(FlagZero, cpu.Reg.A&v == 0)
		cpu.Reg.Set(FlagNegative, v&0x80 != 0)
		cpu.Reg.Set(FlagOverflow, v&0x40 != 0)
		return false, 0, nil, nil
	case "CMP":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.compare(cpu.Reg.A, v)
		return crossed, 0, nil, nil
	case "CPX":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.compare(cpu.Reg.X, v)
		return false, 0, nil, nil
	case "CPY":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.compare(cpu.Reg.Y, v)
		return false, 0, nil, nil
	case "DEC":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		v--
		cpu.Reg.SetNZ(v)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, v)
	case "INC":
		v, _, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		v++
		cpu.Reg.SetNZ(v)
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, v)
	case "DEX":
		cpu.Reg.X--
		cpu.Reg.SetNZ(cpu.Reg.X)
		return false, 0, nil, nil
	case "DEY":
		cpu.Reg.Y--
		cpu.Reg.SetNZ(cpu.Reg.Y)
		return false, 0, nil, nil
	case "INX":
		cpu.Reg.X++
		cpu.Reg.SetNZ(cpu.Reg.X)
		return false, 0, nil, nil
	case "INY":
		cpu.Reg.Y++
		cpu.Reg.SetNZ(cpu.Reg.Y)
		return false, 0, nil, nil
	case "LDA":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.A = v
		cpu.Reg.SetNZ(v)
		return crossed, 0, nil, nil
	case "LDX":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.X = v
		cpu.Reg.SetNZ(v)
		return crossed, 0, nil, nil
	case "LDY":
		v, crossed, err := cpu.loadOperand(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.Y = v
		cpu.Reg.SetNZ(v)
		return crossed, 0, nil, nil
	case "STA":
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, cpu.Reg.A)
	case "STX":
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, cpu.Reg.X)
	case "STY":
		return false, 0, nil, cpu.storeOperand(op.Mode, operand, cpu.Reg.Y)
	case "TAX":
		cpu.Reg.X = cpu.Reg.A
		cpu.Reg.SetNZ(cpu.Reg.X)
		return false, 0, nil, nil
	case "TAY":
		cpu.Reg.Y = cpu.Reg.A
		cpu.Reg.SetNZ(cpu.Reg.Y)
		return false, 0, nil, nil
	case "TXA":
		cpu.Reg.A = cpu.Reg.X
		cpu.Reg.SetNZ(cpu.Reg.A)
		return false, 0, nil, nil
	case "TYA":
		cpu.Reg.A = cpu.Reg.Y
		cpu.Reg.SetNZ(cpu.Reg.A)
		return false, 0, nil, nil
	case "TSX":
		cpu.Reg.X = cpu.Reg.SP
		cpu.Reg.SetNZ(cpu.Reg.X)
		return false, 0, nil, nil
	case "TXS":
		cpu.Reg.SP = cpu.Reg.X
		return false, 0, nil, nil
	case "PHA":
		return false, 0, nil, cpu.push(cpu.Reg.A)
	case "PHP":
		return false, 0, nil, cpu.push(cpu.Reg.SavePS(true))
	case "PLA":
		v, err := cpu.pop()
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.A = v
		cpu.Reg.SetNZ(v)
		return false, 0, nil, nil
	case "PLP":
		v, err := cpu.pop()
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.RestorePS(v)
		return false, 0, nil, nil
	case "CLC":
		cpu.Reg.Set(FlagCarry, false)
		return false, 0, nil, nil
	case "SEC":
		cpu.Reg.Set(FlagCarry, true)
		return false, 0, nil, nil
	case "CLD":
		cpu.Reg.Set(FlagDecimal, false)
		return false, 0, nil, nil
	case "SED":
		cpu.Reg.Set(FlagDecimal, true)
		return false, 0, nil, nil
	case "CLI":
		cpu.Reg.Set(FlagInterruptDisable, false)
		return false, 0, nil, nil
	case "SEI":
		cpu.Reg.Set(FlagInterruptDisable, true)
		return false, 0, nil, nil
	case "CLV":
		cpu.Reg.Set(FlagOverflow, false)
		return false, 0, nil, nil
	case "NOP":
		return false, 0, nil, nil
	case "JMP":
		addr, _, _, err := cpu.resolveAddress(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.PC = addr
		return false, 0, nil, nil
	case "JSR":
		addr, _, _, err := cpu.resolveAddress(op.Mode, operand)
		if err != nil {
			return false, 0, nil, err
		}
		// JSR pushes the address of the last byte of the JSR instruction,
		// not the address of the next instruction: RTS adds one back.
		if err := cpu.pushWord(cpu.Reg.PC - 1); err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.PC = addr
		return false, 0, nil, nil
	case "RTS":
		addr, err := cpu.popWord()
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.PC = addr + 1
		return false, 0, nil, nil
	case "BRK":
		// BRK's operand byte is conventionally a signature/padding byte
		// that is never fetched as an instruction; the return address
		// pushed is one past it, so PC advances an extra byte here.
		cpu.Reg.PC++
		if err := cpu.interrupt(true, vectorBRK); err != nil {
			return false, 0, nil, err
		}
		return false, 0, HaltBrk{PC: pc}, nil
	case "RTI":
		v, err := cpu.pop()
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.RestorePS(v)
		addr, err := cpu.popWord()
		if err != nil {
			return false, 0, nil, err
		}
		cpu.Reg.PC = addr
		return false, 0, nil, nil
	case "BCC":
		return cpu.branch(operand, !cpu.Reg.Has(FlagCarry))
	case "BCS":
		return cpu.branch(operand, cpu.Reg.Has(FlagCarry))
	case "BEQ":
		return cpu.branch(operand, cpu.Reg.Has(FlagZero))
	case "BNE":
		return cpu.branch(operand, !cpu.Reg.Has(FlagZero))
	case "BMI":
		return cpu.branch(operand, cpu.Reg.Has(FlagNegative))
	case "BPL":
		return cpu.branch(operand, !cpu.Reg.Has(FlagNegative))
	case "BVC":
		return cpu.branch(operand, !cpu.Reg.Has(FlagOverflow))
	case "BVS":
		return cpu.branch(operand, cpu.Reg.Has(FlagOverflow))
	default:
		return false, 0, HaltIllegalOpcode{PC: pc, Opcode: op.Byte}, ErrIllegalOpcode{PC: pc, Opcode: op.Byte}
	}
}

// branch implements every conditional-branch instruction: if taken, it
// charges one extra cycle unconditionally and reports a page crossing
// (for the table's PageCycles bonus) only when the branch lands outside
// the page containing the instruction following the branch.
func (cpu *Cpu) branch(operand []byte, taken bool) (pageCrossed bool, extraCycle byte, halt Halt, err error) {
	if !taken {
		return false, 0, nil, nil
	}
	base := cpu.Reg.PC
	offset := int8(operand[0])
	target := emu.Address(int32(base) + int32(offset))
	cpu.Reg.PC = target
	return !samePage(base, target), 1, nil, nil
}
