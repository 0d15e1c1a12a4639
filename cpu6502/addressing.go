package cpu6502

import "github.com/emu502/emu502/emu"

// zeroPageWord reads a 16-bit pointer out of the zero page, wrapping the
// high-byte fetch back to address 0 rather than crossing into page 1 -
// the behavior every zero-page-indirect addressing mode relies on.
func (cpu *Cpu) zeroPageWord(zp byte) (uint16, error) {
	lo, err := cpu.loadByte(emu.Address(zp))
	if err != nil {
		return 0, err
	}
	hi, err := cpu.loadByte(emu.Address(byte(zp + 1)))
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// resolveAddress computes the effective address for every mode that
// reads or writes memory, and reports whether an indexed access crossed
// a page boundary (the condition that costs an extra cycle on ABS,X /
// ABS,Y / (IND),Y).
//
// For the three indexed modes that can cross a page, wrong is the
// address hardware computes before the carry into the high byte lands:
// base-page-high combined with the low byte plus the index, wrapped
// within that page. When no crossing occurs wrong equals addr. Callers
// that need to reproduce the bus traffic a real 6502 generates issue a
// dummy Load at wrong before the real access.
func (cpu *Cpu) resolveAddress(mode Mode, operand []byte) (addr, wrong emu.Address, pageCrossed bool, err error) {
	switch mode {
	case ZeroPage:
		addr = emu.Address(operand[0])
		return addr, addr, false, nil
	case ZeroPageX:
		addr = emu.Address(byte(operand[0] + cpu.Reg.X))
		return addr, addr, false, nil
	case ZeroPageY:
		addr = emu.Address(byte(operand[0] + cpu.Reg.Y))
		return addr, addr, false, nil
	case Absolute:
		addr = operandWord(operand)
		return addr, addr, false, nil
	case AbsoluteX:
		base := operandWord(operand)
		addr = base + emu.Address(cpu.Reg.X)
		wrong = (base & 0xff00) | emu.Address(byte(base)+cpu.Reg.X)
		return addr, wrong, !samePage(base, addr), nil
	case AbsoluteY:
		base := operandWord(operand)
		addr = base + emu.Address(cpu.Reg.Y)
		wrong = (base & 0xff00) | emu.Address(byte(base)+cpu.Reg.Y)
		return addr, wrong, !samePage(base, addr), nil
	case IndirectX:
		zp := byte(operand[0] + cpu.Reg.X)
		addr, err = cpu.zeroPageWord(zp)
		return addr, addr, false, err
	case IndirectY:
		base, err := cpu.zeroPageWord(operand[0])
		if err != nil {
			return 0, 0, false, err
		}
		addr = base + emu.Address(cpu.Reg.Y)
		wrong = (base & 0xff00) | emu.Address(byte(base)+cpu.Reg.Y)
		return addr, wrong, !samePage(base, addr), nil
	case Indirect:
		// JMP ($xxFF) indirect page-boundary bug: if the pointer's low
		// byte is 0xFF, the high byte is fetched from the start of the
		// same page instead of the next one. This is documented NMOS
		// 6502 behavior, not a defect, and is preserved here.
		ptr := operandWord(operand)
		lo, err := cpu.loadByte(ptr)
		if err != nil {
			return 0, 0, false, err
		}
		hiAddr := (ptr & 0xff00) | emu.Address(byte(ptr)+1)
		hi, err := cpu.loadByte(hiAddr)
		if err != nil {
			return 0, 0, false, err
		}
		addr = uint16(lo) | uint16(hi)<<8
		return addr, addr, false, nil
	default:
		return 0, 0, false, nil
	}
}

// operandWord assembles a little-endian two-byte operand into an address,
// as every absolute-family addressing mode's instruction bytes encode it.
func operandWord(operand []byte) uint16 {
	return uint16(operand[0]) | uint16(operand[1])<<8
}

// loadOperand returns the byte value an instruction operates on, for
// every readable addressing mode including Immediate and Accumulator.
// A crossed-page AbsoluteX/AbsoluteY/IndirectY access first issues a
// dummy Load at the uncorrected address, matching the extra bus cycle
// the opcode table bills it for.
func (cpu *Cpu) loadOperand(mode Mode, operand []byte) (byte, bool, error) {
	switch mode {
	case Immediate:
		return operand[0], false, nil
	case Accum:
		return cpu.Reg.A, false, nil
	default:
		addr, wrong, pageCrossed, err := cpu.resolveAddress(mode, operand)
		if err != nil {
			return 0, false, err
		}
		if pageCrossed {
			if _, err := cpu.loadByte(wrong); err != nil {
				return 0, false, err
			}
		}
		v, err := cpu.loadByte(addr)
		return v, pageCrossed, err
	}
}

// storeOperand writes v back through the same addressing mode
// loadOperand read from. AbsoluteX, AbsoluteY, and IndirectY always
// issue a dummy Load at the uncorrected address first, whether or not
// the access actually crosses a page: real hardware performs this read
// unconditionally for these modes, which is why their opcode table
// entries carry no page-crossing bonus of their own.
func (cpu *Cpu) storeOperand(mode Mode, operand []byte, v byte) error {
	if mode == Accum {
		cpu.Reg.A = v
		return nil
	}
	addr, wrong, _, err := cpu.resolveAddress(mode, operand)
	if err != nil {
		return err
	}
	if mode == AbsoluteX || mode == AbsoluteY || mode == IndirectY {
		if _, err := cpu.loadByte(wrong); err != nil {
			return err
		}
	}
	return cpu.storeByte(addr, v)
}
