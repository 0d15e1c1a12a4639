package cpu6502

import "fmt"

// Flag is one bit of the 6502 status register P.
type Flag byte

const (
	FlagCarry            Flag = 1 << 0
	FlagZero             Flag = 1 << 1
	FlagInterruptDisable Flag = 1 << 2
	FlagDecimal          Flag = 1 << 3
	FlagBreak            Flag = 1 << 4
	FlagUnused           Flag = 1 << 5 // always reads as 1
	FlagOverflow         Flag = 1 << 6
	FlagNegative         Flag = 1 << 7
)

// Registers holds the complete, architecturally visible CPU state: the
// three 8-bit general registers, the stack pointer, the program counter,
// and the status flags.
type Registers struct {
	A  byte
	X  byte
	Y  byte
	SP byte
	PC uint16
	P  Flag
}

// Init resets registers to their post-power-on values: SP at the top of
// the stack page, the Unused and InterruptDisable flags set, everything
// else zero.
func (r *Registers) Init() {
	*r = Registers{
		SP: 0xff,
		P:  FlagUnused | FlagInterruptDisable,
	}
}

func (r *Registers) Has(f Flag) bool {
	return r.P&f != 0
}

func (r *Registers) Set(f Flag, v bool) {
	if v {
		r.P |= f
	} else {
		r.P &^= f
	}
}

// SetNZ sets the Negative and Zero flags from the value just produced by
// an ALU operation or load.
func (r *Registers) SetNZ(v byte) {
	r.Set(FlagZero, v == 0)
	r.Set(FlagNegative, v&0x80 != 0)
}

// SavePS returns the status byte to push for PHP/BRK/IRQ/NMI. The Unused
// bit always reads 1; the Break bit is set only for a software BRK/PHP,
// matching the hardware's behavior of recording why the stack push
// happened.
func (r *Registers) SavePS(brk bool) byte {
	p := r.P | FlagUnused
	if brk {
		p |= FlagBreak
	} else {
		p &^= FlagBreak
	}
	return byte(p)
}

// RestorePS restores P from a byte popped off the stack (PLP/RTI). The
// Break flag has no hardware latch of its own; whatever value was pushed
// simply becomes bit 4 of P again, same as every other flag.
func (r *Registers) RestorePS(v byte) {
	r.P = Flag(v) | FlagUnused
}

func (r *Registers) DumpFlags() string {
	flag := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	return string([]byte{
		flag(r.Has(FlagNegative), 'N'),
		flag(r.Has(FlagOverflow), 'V'),
		'-',
		flag(r.Has(FlagBreak), 'B'),
		flag(r.Has(FlagDecimal), 'D'),
		flag(r.Has(FlagInterruptDisable), 'I'),
		flag(r.Has(FlagZero), 'Z'),
		flag(r.Has(FlagCarry), 'C'),
	})
}

func (r Registers) String() string {
	return fmt.Sprintf("A=%02x X=%02x Y=%02x SP=%02x PC=%04x P=%s", r.A, r.X, r.Y, r.SP, r.PC, r.DumpFlags())
}
