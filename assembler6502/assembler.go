package assembler6502

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/emu502/emu502/cpu6502"
	"github.com/emu502/emu502/emu"
)

// Assembler is a single-scan symbolic assembler for 6502 source text. It
// is "two-pass" in effect rather than in implementation: forward
// references are deferred as relocations and patched the moment their
// target label is defined, so the whole file is scanned only once.
type Assembler struct {
	Verbose bool

	Program  *emu.Program
	position emu.Address
}

// NewAssembler returns an Assembler with a fresh, empty Program.
func NewAssembler() *Assembler {
	return &Assembler{Program: emu.NewProgram()}
}

func (asm *Assembler) log(format string, args ...any) {
	if asm.Verbose {
		log.Printf(format, args...)
	}
}

// Parse assembles the source read from input into a Program. It is the
// single-scan equivalent of a classic two-pass compilation context, plus
// its top-level driver loop.
func (asm *Assembler) Parse(input io.Reader) (*emu.Program, error) {
	asm.Program = emu.NewProgram()
	asm.position = 0

	scanner := bufio.NewScanner(input)
	lineno := 0
	for scanner.Scan() {
		lineno++
		raw := scanner.Text()
		asm.log("assembler6502: %d: %v", lineno, raw)

		if err := asm.parseLine(raw); err != nil {
			return nil, ErrSyntax{LineNo: lineno, Line: raw, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if missing := asm.Program.UnresolvedSymbols(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolMissing, missing[0])
	}

	return asm.Program, nil
}

func (asm *Assembler) parseLine(raw string) error {
	line := strings.TrimSpace(stripComment(raw))
	if line == "" {
		return nil
	}

	line = substituteCharLiterals(line)
	line, err := asm.substituteExpressions(line)
	if err != nil {
		return err
	}

	label, rest := splitLabel(line)
	if label != "" {
		if err := asm.defineLabel(label); err != nil {
			return err
		}
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	op, argText := splitOp(rest)
	if strings.HasPrefix(op, ".") {
		return asm.parseDirective(strings.ToLower(op[1:]), argText)
	}
	return asm.parseInstruction(strings.ToUpper(op), strings.ReplaceAll(argText, " ", ""))
}

// defineLabel implements the label-definition rule: a fresh
// name is recorded at the current cursor; a name already seen as a
// forward reference is resolved and has its queued relocations patched;
// a name already defined is a duplicate-definition error.
func (asm *Assembler) defineLabel(name string) error {
	sym := asm.Program.FindSymbol(name)
	if sym == nil {
		offset := asm.position
		asm.Program.AddSymbol(&emu.Symbol{Name: name, Offset: &offset})
		asm.log("assembler6502: label %v at %#04x", name, asm.position)
		return nil
	}
	if sym.Offset != nil {
		return fmt.Errorf("%w: %v", ErrLabelDuplicate, name)
	}
	offset := asm.position
	sym.Offset = &offset
	sym.Imported = false
	asm.log("assembler6502: resolved forward label %v at %#04x", name, asm.position)
	return asm.Program.RelocateLabel(sym)
}

func (asm *Assembler) parseInstruction(mnemonic, operandText string) error {
	if len(cpu6502.Variants(mnemonic)) == 0 {
		return ErrUnknownMnemonic
	}
	return asm.encodeInstruction(mnemonic, operandText)
}
