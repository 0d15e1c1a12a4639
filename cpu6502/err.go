package cpu6502

import (
	"errors"

	"github.com/emu502/emu502/translate"
)

var f = translate.From

var (
	// ErrStackOverflow and ErrStackUnderflow are only ever returned when
	// strict stack checking is enabled on a Cpu: by default, pushes and
	// pops wrap within the stack page the way real hardware does.
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
)

// ErrIllegalOpcode names the undecodable byte fetched at PC.
type ErrIllegalOpcode struct {
	PC     uint16
	Opcode byte
}

func (e ErrIllegalOpcode) Error() string {
	return f("illegal opcode 0x%02x at 0x%04x", e.Opcode, e.PC)
}

func (e ErrIllegalOpcode) Is(err error) bool {
	_, ok := err.(ErrIllegalOpcode)
	return ok
}
