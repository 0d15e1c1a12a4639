package cpu6502

// adc implements ADC for both binary and (if cpu.DecimalMode) BCD modes,
// following the NMOS 6502's actual decimal-mode flag quirks: N and V are
// computed from the binary sum even while in decimal mode.
func (cpu *Cpu) adc(value byte) {
	acc := uint32(cpu.Reg.A)
	add := uint32(value)
	carry := uint32(0)
	if cpu.Reg.Has(FlagCarry) {
		carry = 1
	}

	if cpu.DecimalMode && cpu.Reg.Has(FlagDecimal) {
		lo := (acc & 0x0f) + (add & 0x0f) + carry
		var carryLo uint32
		if lo >= 0x0a {
			carryLo = 0x10
			lo -= 0x0a
		}
		hi := (acc & 0xf0) + (add & 0xf0) + carryLo
		if hi >= 0xa0 {
			cpu.Reg.Set(FlagCarry, true)
			hi -= 0xa0
		} else {
			cpu.Reg.Set(FlagCarry, false)
		}
		v := hi | lo
		cpu.Reg.Set(FlagOverflow, (acc^v)&0x80 != 0 && (acc^add)&0x80 == 0)
		cpu.Reg.A = byte(v)
	} else {
		v := acc + add + carry
		cpu.Reg.Set(FlagCarry, v >= 0x100)
		cpu.Reg.Set(FlagOverflow, (acc&0x80) == (add&0x80) && (acc&0x80) != (v&0x80))
		cpu.Reg.A = byte(v)
	}
	cpu.Reg.SetNZ(cpu.Reg.A)
}

// sbc implements SBC for both binary and BCD modes. SBC is ADC of the
// ones' complement of the operand on the 6502, but decimal-mode correction
// differs from ADC's, so it is implemented directly rather than by
// delegating to adc.
func (cpu *Cpu) sbc(value byte) {
	acc := uint32(cpu.Reg.A)
	sub := uint32(value)
	carry := uint32(0)
	if cpu.Reg.Has(FlagCarry) {
		carry = 1
	}

	if cpu.DecimalMode && cpu.Reg.Has(FlagDecimal) {
		lo := 0x0f + (acc & 0x0f) - (sub & 0x0f) + carry
		var carryLo uint32
		if lo < 0x10 {
			lo -= 0x06
			carryLo = 0
		} else {
			lo -= 0x10
			carryLo = 0x10
		}
		hi := 0xf0 + (acc & 0xf0) - (sub & 0xf0) + carryLo
		if hi < 0x100 {
			cpu.Reg.Set(FlagCarry, false)
			hi -= 0x60
		} else {
			cpu.Reg.Set(FlagCarry, true)
		}
		v := (hi & 0xf0) | (lo & 0x0f)
		binary := acc - sub - (1 - carry)
		cpu.Reg.Set(FlagOverflow, (acc^binary)&0x80 != 0 && (acc^sub)&0x80 != 0)
		cpu.Reg.A = byte(v)
	} else {
		v := acc - sub - (1 - carry)
		cpu.Reg.Set(FlagCarry, v < 0x100)
		cpu.Reg.Set(FlagOverflow, (acc&0x80) != (sub&0x80) && (acc&0x80) != (v&0x80))
		cpu.Reg.A = byte(v)
	}
	cpu.Reg.SetNZ(cpu.Reg.A)
}

func (cpu *Cpu) compare(reg, value byte) {
	cpu.Reg.Set(FlagCarry, reg >= value)
	cpu.Reg.SetNZ(reg - value)
}

func asl(v byte) (byte, bool) {
	carry := v&0x80 != 0
	return v << 1, carry
}

func lsr(v byte) (byte, bool) {
	carry := v&0x01 != 0
	return v >> 1, carry
}

func rol(v byte, carryIn bool) (byte, bool) {
	carryOut := v&0x80 != 0
	out := v << 1
	if carryIn {
		out |= 0x01
	}
	return out, carryOut
}

func ror(v byte, carryIn bool) (byte, bool) {
	carryOut := v&0x01 != 0
	out := v >> 1
	if carryIn {
		out |= 0x80
	}
	return out, carryOut
}
