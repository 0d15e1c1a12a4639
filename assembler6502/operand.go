package assembler6502

import (
	"strings"

	"github.com/emu502/emu502/cpu6502"
	"github.com/emu502/emu502/emu"
)

// argKind classifies the syntactic shape of an instruction operand before
// any address mode is selected.
type argKind int

const (
	argNone argKind = iota
	argAccum
	argImmediate
	argIndirect
	argIndirectX
	argIndirectY
	argDirect
	argIndexedX
	argIndexedY
)

// argument is a parsed operand: either a resolved numeric value, or a
// reference to a symbol whose address may not be known yet. kind records
// the syntactic shape the operand text parsed into.
type argument struct {
	kind     argKind
	value    uint32
	hasValue bool
	label    string
	isLabel  bool
}

// parseArgument parses the whitespace-free operand text that follows a
// mnemonic into an argument.
func (asm *Assembler) parseArgument(text string) (argument, error) {
	if text == "" {
		return argument{kind: argNone}, nil
	}
	if text == "A" || text == "a" {
		return argument{kind: argAccum}, nil
	}
	if strings.HasPrefix(text, "#") {
		v, ok, _, _, err := asm.resolveOperand(text[1:])
		if err != nil {
			return argument{}, err
		}
		if !ok {
			return argument{}, ErrAddressingSyntax
		}
		return argument{kind: argImmediate, value: v, hasValue: true}, nil
	}
	if strings.HasPrefix(text, "(") {
		switch {
		case strings.HasSuffix(text, ",X)") || strings.HasSuffix(text, ",x)"):
			inner := text[1 : len(text)-3]
			return asm.resolveInto(argIndirectX, inner)
		case strings.HasSuffix(text, "),Y") || strings.HasSuffix(text, "),y"):
			inner := text[1 : len(text)-3]
			return asm.resolveInto(argIndirectY, inner)
		case strings.HasSuffix(text, ")"):
			inner := text[1 : len(text)-1]
			return asm.resolveInto(argIndirect, inner)
		default:
			return argument{}, ErrAddressingSyntax
		}
	}
	switch {
	case strings.HasSuffix(text, ",X") || strings.HasSuffix(text, ",x"):
		return asm.resolveInto(argIndexedX, text[:len(text)-2])
	case strings.HasSuffix(text, ",Y") || strings.HasSuffix(text, ",y"):
		return asm.resolveInto(argIndexedY, text[:len(text)-2])
	default:
		return asm.resolveInto(argDirect, text)
	}
}

func (asm *Assembler) resolveInto(kind argKind, text string) (argument, error) {
	value, hasValue, label, isLabel, err := asm.resolveOperand(text)
	if err != nil {
		return argument{}, err
	}
	return argument{kind: kind, value: value, hasValue: hasValue, label: label, isLabel: isLabel}, nil
}

// resolveOperand resolves a bare value token into either a known
// numeric value (literal or alias) or a symbol reference. Labels never
// resolve to a "known value" here even if already defined: a label
// argument must never select a zero-page variant, regardless of whether
// its resolved address happens to fit in a byte.
func (asm *Assembler) resolveOperand(text string) (value uint32, hasValue bool, label string, isLabel bool, err error) {
	if text == "" {
		err = ErrAddressingSyntax
		return
	}
	if looksNumeric(text) {
		value, err = parseNumber(text)
		hasValue = err == nil
		return
	}
	if alias := asm.Program.FindAlias(text); alias != nil {
		v, ok := aliasNumericValue(alias)
		if !ok {
			err = ErrAddressingSyntax
			return
		}
		value, hasValue = v, true
		return
	}
	for _, c := range text {
		if !isIdentifierByte(byte(c)) {
			err = ErrAddressingSyntax
			return
		}
	}
	return 0, false, text, true, nil
}

// candidateModes computes the set of address modes an argument could
// satisfy, before intersection with the mnemonic's supported modes.
func candidateModes(a argument) []cpu6502.Mode {
	switch a.kind {
	case argNone:
		return []cpu6502.Mode{cpu6502.Implied, cpu6502.Accum}
	case argAccum:
		return []cpu6502.Mode{cpu6502.Accum}
	case argImmediate:
		return []cpu6502.Mode{cpu6502.Immediate}
	case argIndirect:
		return []cpu6502.Mode{cpu6502.Indirect}
	case argIndirectX:
		return []cpu6502.Mode{cpu6502.IndirectX}
	case argIndirectY:
		return []cpu6502.Mode{cpu6502.IndirectY}
	case argDirect:
		if a.isLabel {
			return []cpu6502.Mode{cpu6502.Absolute, cpu6502.Relative}
		}
		if a.value <= 0xff {
			return []cpu6502.Mode{cpu6502.ZeroPage}
		}
		return []cpu6502.Mode{cpu6502.Absolute}
	case argIndexedX:
		if a.isLabel {
			return []cpu6502.Mode{cpu6502.AbsoluteX}
		}
		if a.value <= 0xff {
			return []cpu6502.Mode{cpu6502.ZeroPageX}
		}
		return []cpu6502.Mode{cpu6502.AbsoluteX}
	case argIndexedY:
		if a.isLabel {
			return []cpu6502.Mode{cpu6502.AbsoluteY}
		}
		if a.value <= 0xff {
			return []cpu6502.Mode{cpu6502.ZeroPageY}
		}
		return []cpu6502.Mode{cpu6502.AbsoluteY}
	default:
		return nil
	}
}

// selectVariant intersects an argument's candidate modes with the modes
// a mnemonic actually supports and returns the single surviving Opcode.
func selectVariant(mnemonic string, a argument) (cpu6502.Opcode, error) {
	variants := cpu6502.Variants(mnemonic)
	if len(variants) == 0 {
		return cpu6502.Opcode{}, ErrUnknownMnemonic
	}
	candidates := candidateModes(a)

	var matches []cpu6502.Opcode
	for _, v := range variants {
		for _, c := range candidates {
			if v.Mode == c {
				matches = append(matches, v)
				break
			}
		}
	}
	switch len(matches) {
	case 0:
		return cpu6502.Opcode{}, ErrModeUnsupported
	case 1:
		return matches[0], nil
	default:
		return cpu6502.Opcode{}, ErrAmbiguousMode
	}
}

// symbolAddress returns a symbol's best-known address: its real offset
// if defined, or the current cursor position as a placeholder for an
// as-yet-undefined forward reference (mirroring the original's
// `offset.value_or(current_position)`).
func symbolAddress(sym *emu.Symbol, placeholder emu.Address) emu.Address {
	if sym.Offset != nil {
		return *sym.Offset
	}
	return placeholder
}
