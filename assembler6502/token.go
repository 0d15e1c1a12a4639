package assembler6502

import (
	"regexp"
	"strconv"
	"strings"
)

// stripComment removes a trailing ';' comment, but only outside of a
// quoted string, so a semicolon inside a .ascii literal is not mistaken
// for one.
func stripComment(line string) string {
	inString := false
	for i, c := range line {
		switch c {
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

var charLiteralRe = regexp.MustCompile(`'\\?[^']'`)

// substituteCharLiterals rewrites 'c' and 'c'-with-escape literals into
// their decimal byte value, as a line pre-pass before word-splitting.
func substituteCharLiterals(line string) string {
	return charLiteralRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if len(str) == 2 && str[0] == '\\' {
			switch str[1] {
			case '\\':
				str = "\\"
			case 'n':
				str = "\n"
			case 'r':
				str = "\r"
			case 'e':
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return strconv.Itoa(int(str[0]))
	})
}

var exprRe = regexp.MustCompile(`\$\([^\$]*\)`)

// substituteExpressions rewrites every $(...) span in line with its
// evaluated decimal value.
func (asm *Assembler) substituteExpressions(line string) (string, error) {
	var evalErr error
	out := exprRe.ReplaceAllStringFunc(line, func(span string) string {
		value, err := asm.evalExpr(span[2 : len(span)-1])
		if err != nil {
			evalErr = err
			return span
		}
		return strconv.FormatUint(uint64(value), 10)
	})
	if evalErr != nil {
		return "", evalErr
	}
	return out, nil
}

// splitLabel splits a preprocessed line into an optional "NAME:" label
// and the remainder of the line.
func splitLabel(line string) (label, rest string) {
	i := strings.IndexAny(line, " \t:")
	if i < 0 || line[i] != ':' {
		return "", line
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// splitOp splits the remainder of a line (after any label) into the
// leading mnemonic or .directive word and the raw argument text.
func splitOp(rest string) (op, args string) {
	i := strings.IndexAny(rest, " \t")
	if i < 0 {
		return rest, ""
	}
	return rest[:i], strings.TrimSpace(rest[i+1:])
}

// splitTopLevelArgs splits a directive's comma-separated argument list,
// respecting quoted strings and parentheses so a comma inside "text" or
// (base,X) is not treated as an argument separator.
func splitTopLevelArgs(text string) []string {
	var args []string
	depth := 0
	inString := false
	start := 0
	for i, c := range text {
		switch c {
		case '"':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString && depth > 0 {
				depth--
			}
		case ',':
			if !inString && depth == 0 {
				args = append(args, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	last := strings.TrimSpace(text[start:])
	if last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// parseNumber parses an integer literal in decimal, 0x/$ hex, or 0b/%
// binary. Character literals are expanded to decimal digits earlier, by
// substituteCharLiterals.
func parseNumber(word string) (uint32, error) {
	switch {
	case strings.HasPrefix(word, "$"):
		word = "0x" + word[1:]
	case strings.HasPrefix(word, "%"):
		word = "0b" + word[1:]
	}
	v, err := strconv.ParseUint(word, 0, 32)
	if err != nil {
		return 0, ErrMalformedLiteral
	}
	return uint32(v), nil
}

func isIdentifierByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// looksNumeric reports whether word starts like a numeric literal rather
// than an identifier, so the operand parser can tell a label from a
// constant without a symbol table lookup.
func looksNumeric(word string) bool {
	if word == "" {
		return false
	}
	c := word[0]
	return c == '$' || c == '%' || (c >= '0' && c <= '9')
}
