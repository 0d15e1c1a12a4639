package assembler6502

import (
	"errors"

	"github.com/emu502/emu502/translate"
)

var f = translate.From

var (
	// Lex errors
	ErrMalformedLiteral = errors.New(f("malformed literal"))
	ErrStrayCharacter   = errors.New(f("stray character"))
	ErrUnterminated     = errors.New(f("unterminated string or expression"))

	// Parse errors
	ErrUnknownMnemonic  = errors.New(f("unknown mnemonic"))
	ErrUnknownDirective = errors.New(f("unknown directive"))
	ErrArity            = errors.New(f("wrong number of arguments"))
	ErrAddressingSyntax = errors.New(f("unrecognized addressing syntax"))

	// Semantic errors
	ErrLabelDuplicate  = errors.New(f("label already defined"))
	ErrSymbolMissing   = errors.New(f("undefined symbol"))
	ErrAmbiguousMode   = errors.New(f("ambiguous address mode"))
	ErrModeUnsupported = errors.New(f("address mode not supported by this mnemonic"))

	// Alias errors
	ErrAliasRedefinition = errors.New(f("alias redefined"))
	ErrAliasCycle        = errors.New(f("alias refers to itself"))
	ErrAliasMissing      = errors.New(f("undefined alias"))

	// Expression errors
	ErrExpression = errors.New(f("invalid compile-time expression"))
)

// ErrSyntax wraps any assembler error with the source line it occurred
// on.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v': %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
