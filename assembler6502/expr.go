package assembler6502

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/emu502/emu502/emu"
)

// evalExpr evaluates a compile-time $(...) expression against the alias
// values known so far. Aliases that aliasNumericValue cannot read as a
// number (or that do not exist yet) are absent from the predeclared
// names, so referencing one in an expression surfaces as a starlark name
// error rather than silently succeeding.
func (asm *Assembler) evalExpr(expr string) (uint32, error) {
	thread := &starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, alias := range asm.Program.Aliases {
		if v, ok := aliasNumericValue(alias); ok {
			pred[name] = starlark.MakeInt64(int64(v))
		}
	}

	prog := "rc = " + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, thread, "expr", prog, pred)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExpression, err)
	}
	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrExpression
	}
	i, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrExpression
	}
	v, ok := i.Int64()
	if !ok {
		return 0, ErrExpression
	}
	return uint32(v), nil
}

// aliasNumericValue interprets an alias's byte value as a little-endian
// unsigned integer. Only an empty value or one longer than 4 bytes is
// rejected; a string alias of 1 to 4 bytes is not told apart from a
// numeric one and is read as a number too.
func aliasNumericValue(a *emu.Alias) (uint32, bool) {
	if len(a.Value) == 0 || len(a.Value) > 4 {
		return 0, false
	}
	var v uint32
	for i, b := range a.Value {
		v |= uint32(b) << (8 * i)
	}
	return v, true
}
