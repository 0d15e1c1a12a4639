package assembler6502

import (
	"github.com/emu502/emu502/cpu6502"
	"github.com/emu502/emu502/emu"
)

// encodeInstruction parses the argument, selects the one address mode it
// can satisfy, emits the opcode byte, then emits or relocates the
// operand.
func (asm *Assembler) encodeInstruction(mnemonic, operandText string) error {
	arg, err := asm.parseArgument(operandText)
	if err != nil {
		return err
	}
	op, err := selectVariant(mnemonic, arg)
	if err != nil {
		return err
	}

	if err := asm.Program.Image.PutByte(asm.position, op.Byte, false); err != nil {
		return err
	}
	asm.position++

	return asm.emitOperand(op, arg)
}

func (asm *Assembler) emitOperand(op cpu6502.Opcode, arg argument) error {
	switch op.Mode {
	case cpu6502.Implied, cpu6502.Accum:
		return nil
	case cpu6502.Immediate, cpu6502.ZeroPage, cpu6502.ZeroPageX, cpu6502.ZeroPageY:
		return asm.emitByteOperand(op.Mode, arg)
	case cpu6502.IndirectX, cpu6502.IndirectY:
		if arg.value > 0xff {
			return ErrAddressingSyntax
		}
		return asm.emitByteOperand(op.Mode, arg)
	case cpu6502.Relative:
		return asm.emitRelativeOperand(arg)
	case cpu6502.Absolute, cpu6502.AbsoluteX, cpu6502.AbsoluteY, cpu6502.Indirect:
		return asm.emitWordOperand(arg)
	default:
		return ErrAddressingSyntax
	}
}

func (asm *Assembler) emitByteOperand(mode cpu6502.Mode, arg argument) error {
	if !arg.hasValue {
		return ErrAddressingSyntax
	}
	if err := asm.Program.Image.PutByte(asm.position, byte(arg.value), false); err != nil {
		return err
	}
	asm.position++
	return nil
}

// emitRelativeOperand handles REL-mode operands. candidateModes only ever
// offers Relative for label arguments (branches always target a label),
// so this is always a relocation, never a literal byte.
func (asm *Assembler) emitRelativeOperand(arg argument) error {
	if !arg.isLabel {
		return ErrAddressingSyntax
	}
	return asm.emitLabelOperand(arg.label, emu.RelocationRelative, 1)
}

func (asm *Assembler) emitWordOperand(arg argument) error {
	if arg.isLabel {
		return asm.emitLabelOperand(arg.label, emu.RelocationAbsolute, 2)
	}
	if !arg.hasValue {
		return ErrAddressingSyntax
	}
	lo := byte(arg.value)
	hi := byte(arg.value >> 8)
	if err := asm.Program.Image.PutBytes(asm.position, []byte{lo, hi}, false); err != nil {
		return err
	}
	asm.position += 2
	return nil
}

// emitLabelOperand records a forward or backward reference to label at
// the current cursor and applies whatever patch is possible right now:
// the real address if label is already defined, a placeholder otherwise.
func (asm *Assembler) emitLabelOperand(label string, mode emu.RelocationMode, size emu.Address) error {
	sym := asm.Program.FindSymbol(label)
	if sym == nil {
		sym = &emu.Symbol{Name: label, Imported: true}
		asm.Program.AddSymbol(sym)
	}

	reloc := &emu.Relocation{Target: sym, Position: asm.position, Mode: mode}
	target := symbolAddress(sym, asm.position)
	if err := asm.Program.ApplyRelocation(reloc, target); err != nil {
		return err
	}
	asm.Program.AddRelocation(reloc)
	asm.position += size
	return nil
}
