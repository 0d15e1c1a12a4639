package assembler6502

import (
	"strings"

	"github.com/emu502/emu502/emu"
)

// parseDirective dispatches a dot-prefixed directive: the core set
// (.org, .byte, .word) plus .alias, .ascii, and .asciiz.
func (asm *Assembler) parseDirective(name, argText string) error {
	switch name {
	case "org":
		return asm.directiveOrg(argText)
	case "byte":
		return asm.directiveByte(argText)
	case "word":
		return asm.directiveWord(argText)
	case "alias":
		return asm.directiveAlias(argText)
	case "ascii":
		return asm.directiveAscii(argText, false)
	case "asciiz":
		return asm.directiveAscii(argText, true)
	default:
		return ErrUnknownDirective
	}
}

func (asm *Assembler) directiveOrg(argText string) error {
	args := splitTopLevelArgs(argText)
	if len(args) != 1 {
		return ErrArity
	}
	v, hasValue, _, isLabel, err := asm.resolveOperand(args[0])
	if err != nil {
		return err
	}
	if isLabel || !hasValue {
		return ErrAddressingSyntax
	}
	asm.position = emu.Address(v)
	return nil
}

func (asm *Assembler) directiveByte(argText string) error {
	args := splitTopLevelArgs(argText)
	if len(args) == 0 {
		return ErrArity
	}
	for _, a := range args {
		v, hasValue, _, isLabel, err := asm.resolveOperand(a)
		if err != nil {
			return err
		}
		if isLabel || !hasValue {
			return ErrAddressingSyntax
		}
		if err := asm.Program.Image.PutByte(asm.position, byte(v), false); err != nil {
			return err
		}
		asm.position++
	}
	return nil
}

func (asm *Assembler) directiveWord(argText string) error {
	args := splitTopLevelArgs(argText)
	if len(args) == 0 {
		return ErrArity
	}
	for _, a := range args {
		v, hasValue, label, isLabel, err := asm.resolveOperand(a)
		if err != nil {
			return err
		}
		if isLabel {
			if err := asm.emitLabelOperand(label, emu.RelocationAbsolute, 2); err != nil {
				return err
			}
			continue
		}
		if !hasValue {
			return ErrAddressingSyntax
		}
		if err := asm.Program.Image.PutBytes(asm.position, []byte{byte(v), byte(v >> 8)}, false); err != nil {
			return err
		}
		asm.position += 2
	}
	return nil
}

func (asm *Assembler) directiveAlias(argText string) error {
	name, valueText := splitOp(argText)
	if name == "" || valueText == "" {
		return ErrArity
	}
	if asm.Program.FindAlias(name) != nil {
		return ErrAliasRedefinition
	}
	if referencesOwnName(valueText, name) {
		return ErrAliasCycle
	}

	var value []byte
	if str, ok := unquote(valueText); ok {
		value = []byte(str)
	} else {
		v, hasValue, _, isLabel, err := asm.resolveOperand(valueText)
		if err != nil {
			return err
		}
		if isLabel || !hasValue {
			return ErrAddressingSyntax
		}
		if v <= 0xff {
			value = []byte{byte(v)}
		} else {
			value = []byte{byte(v), byte(v >> 8)}
		}
	}

	asm.Program.AddAlias(&emu.Alias{Name: name, Value: value})
	return nil
}

func (asm *Assembler) directiveAscii(argText string, nulTerminated bool) error {
	str, ok := unquote(argText)
	if !ok {
		return ErrAddressingSyntax
	}
	data := []byte(str)
	if nulTerminated {
		data = append(data, 0)
	}
	if len(data) > 0 {
		if err := asm.Program.Image.PutBytes(asm.position, data, false); err != nil {
			return err
		}
	}
	asm.position += emu.Address(len(data))
	return nil
}

func unquote(text string) (string, bool) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	return text[1 : len(text)-1], true
}

func referencesOwnName(text, name string) bool {
	i := strings.Index(text, name)
	for i >= 0 {
		before := i == 0 || !isIdentifierByte(text[i-1])
		after := i+len(name) >= len(text) || !isIdentifierByte(text[i+len(name)])
		if before && after {
			return true
		}
		next := strings.Index(text[i+1:], name)
		if next < 0 {
			return false
		}
		i += 1 + next
	}
	return false
}
