package cpu6502

import (
	"fmt"

	"github.com/emu502/emu502/emu"
)

// DisassembledLine is one decoded instruction, or one raw data byte when
// the byte at an address does not begin a legal instruction.
type DisassembledLine struct {
	Address  emu.Address
	Mnemonic string
	Operand  string
	Raw      []byte
	IsData   bool
}

func (l DisassembledLine) String() string {
	if l.IsData {
		return fmt.Sprintf("%04x: .byte $%02x", l.Address, l.Raw[0])
	}
	if l.Operand == "" {
		return fmt.Sprintf("%04x: %s", l.Address, l.Mnemonic)
	}
	return fmt.Sprintf("%04x: %s %s", l.Address, l.Mnemonic, l.Operand)
}

// Disassemble walks a program's code range decoding one instruction per
// line with the same opcode table the CPU fetches from. An address whose
// byte does not decode to a legal instruction is rendered as a single
// data byte rather than failing the whole walk, since a code range may
// legitimately contain embedded data tables (as in the CRC8 scenario).
func Disassemble(p *emu.Program) []DisassembledLine {
	lo, hi := p.Image.CodeRange()
	if _, ok := p.Image.GetByte(lo); !ok {
		return nil
	}

	var lines []DisassembledLine
	for addr := int(lo); addr <= int(hi); {
		b, ok := p.Image.GetByte(emu.Address(addr))
		if !ok {
			addr++
			continue
		}

		op, decoded := Decode(b)
		raw := []byte{b}
		if decoded {
			for i := byte(1); i < op.Length; i++ {
				ob, present := p.Image.GetByte(emu.Address(addr) + emu.Address(i))
				if !present {
					decoded = false
					break
				}
				raw = append(raw, ob)
			}
		}

		if !decoded {
			lines = append(lines, DisassembledLine{Address: emu.Address(addr), Raw: []byte{b}, IsData: true})
			addr++
			continue
		}

		lines = append(lines, DisassembledLine{
			Address:  emu.Address(addr),
			Mnemonic: op.Mnemonic,
			Operand:  formatOperand(op, raw[1:]),
			Raw:      raw,
		})
		addr += int(op.Length)
	}
	return lines
}

func formatOperand(op Opcode, operand []byte) string {
	switch op.Mode {
	case Implied:
		return ""
	case Accum:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02x", operand[0])
	case ZeroPage:
		return fmt.Sprintf("$%02x", operand[0])
	case ZeroPageX:
		return fmt.Sprintf("$%02x,X", operand[0])
	case ZeroPageY:
		return fmt.Sprintf("$%02x,Y", operand[0])
	case Absolute:
		return fmt.Sprintf("$%04x", operandWord(operand))
	case AbsoluteX:
		return fmt.Sprintf("$%04x,X", operandWord(operand))
	case AbsoluteY:
		return fmt.Sprintf("$%04x,Y", operandWord(operand))
	case Indirect:
		return fmt.Sprintf("($%04x)", operandWord(operand))
	case IndirectX:
		return fmt.Sprintf("($%02x,X)", operand[0])
	case IndirectY:
		return fmt.Sprintf("($%02x),Y", operand[0])
	case Relative:
		return fmt.Sprintf("*%+d", int8(operand[0]))
	default:
		return ""
	}
}
