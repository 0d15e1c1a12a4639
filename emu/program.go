package emu

import (
	"fmt"
	"io"
)

// Program is the output of assembly: a sparse byte image plus the symbol,
// alias, and relocation tables that record how it was built. A Program can
// be handed straight to a Memory implementation for execution, or
// serialized for later loading.
type Program struct {
	Image       *SparseImage
	Symbols     map[string]*Symbol
	Aliases     map[string]*Alias
	Relocations []*Relocation
}

// NewProgram returns an empty Program ready for assembly.
func NewProgram() *Program {
	return &Program{
		Image:   NewSparseImage(),
		Symbols: make(map[string]*Symbol),
		Aliases: make(map[string]*Alias),
	}
}

// AddSymbol records symbol in the program's symbol table, overwriting any
// existing entry with the same name. Callers that want duplicate-definition
// detection should check FindSymbol first.
func (p *Program) AddSymbol(symbol *Symbol) {
	p.Symbols[symbol.Name] = symbol
}

// FindSymbol returns the symbol named name, or nil if none exists.
func (p *Program) FindSymbol(name string) *Symbol {
	return p.Symbols[name]
}

// AddAlias records alias in the program's alias table, overwriting any
// existing entry with the same name.
func (p *Program) AddAlias(alias *Alias) {
	p.Aliases[alias.Name] = alias
}

// FindAlias returns the alias named name, or nil if none exists.
func (p *Program) FindAlias(name string) *Alias {
	return p.Aliases[name]
}

// AddRelocation appends a relocation to be patched once its target symbol
// is defined.
func (p *Program) AddRelocation(r *Relocation) {
	p.Relocations = append(p.Relocations, r)
}

// ApplyRelocation patches the bytes a single relocation describes into the
// sparse image, given the now-known target address.
func (p *Program) ApplyRelocation(r *Relocation, target Address) error {
	switch r.Mode {
	case RelocationAbsolute:
		lo := byte(target & 0xff)
		hi := byte(target >> 8)
		return p.Image.PutBytes(r.Position, []byte{lo, hi}, true)
	case RelocationZeroPage:
		if target > 0xff {
			return fmt.Errorf("%w: %v is not a zero-page address", ErrRelocationRange, r.Target)
		}
		return p.Image.PutByte(r.Position, byte(target), true)
	case RelocationRelative:
		offset, err := RelativeJumpOffset(r.Position+1, target)
		if err != nil {
			return fmt.Errorf("branch to %v: %w", r.Target, err)
		}
		return p.Image.PutByte(r.Position, byte(offset), true)
	default:
		return fmt.Errorf("relocation mode %v: %w", r.Mode, ErrRelocationRange)
	}
}

// RelocateLabel patches every relocation already recorded against symbol,
// using symbol's now-known offset as the target address. Call this the
// moment a label's offset becomes known, so forward references defined
// earlier in the relocation list are resolved immediately rather than
// deferred to an end-of-assembly fixup pass.
func (p *Program) RelocateLabel(symbol *Symbol) error {
	if symbol.Offset == nil {
		return fmt.Errorf("%w: %v", ErrSymbolMissing, symbol.Name)
	}
	for _, r := range p.Relocations {
		if r.Target != symbol {
			continue
		}
		if err := p.ApplyRelocation(r, *symbol.Offset); err != nil {
			return err
		}
	}
	return nil
}

// UnresolvedSymbols returns the names of every symbol that was referenced
// but never defined. A non-empty result after assembly finishes means at
// least one label is undefined.
func (p *Program) UnresolvedSymbols() []string {
	var out []string
	for name, sym := range p.Symbols {
		if sym.Offset == nil {
			out = append(out, name)
		}
	}
	return out
}

// Binary returns the assembled program as a dense byte slice, zero-filled
// outside the written range.
func (p *Program) Binary() []byte {
	return p.Image.DumpDense()
}

// Equal reports whether two programs hold identical sparse images, the
// same symbols by name and offset, and the same relocation sets.
func (p *Program) Equal(other *Program) bool {
	if !p.Image.Equal(other.Image) {
		return false
	}
	if len(p.Symbols) != len(other.Symbols) {
		return false
	}
	for name, sym := range p.Symbols {
		osym, ok := other.Symbols[name]
		if !ok {
			return false
		}
		if !offsetsEqual(sym.Offset, osym.Offset) {
			return false
		}
	}
	if len(p.Relocations) != len(other.Relocations) {
		return false
	}
	used := make([]bool, len(other.Relocations))
	for _, r := range p.Relocations {
		if !matchRelocation(r, other.Relocations, used) {
			return false
		}
	}
	return true
}

// offsetsEqual compares two possibly-nil symbol offsets.
func offsetsEqual(a, b *Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// matchRelocation finds an unused relocation in candidates naming the
// same target, position, and mode as r, marking it used on success. The
// relocation list is compared as a set rather than an ordered sequence,
// since assembly order is not part of a program's observable identity.
func matchRelocation(r *Relocation, candidates []*Relocation, used []bool) bool {
	for i, c := range candidates {
		if used[i] {
			continue
		}
		if c.Position != r.Position || c.Mode != r.Mode {
			continue
		}
		if c.Target.Name != r.Target.Name {
			continue
		}
		used[i] = true
		return true
	}
	return false
}

// WriteBinary writes the program's dense dump to w, a raw serialization
// alternative to any structured format.
func (p *Program) WriteBinary(w io.Writer) error {
	_, err := w.Write(p.Binary())
	return err
}

// ReadBinary replaces the program's image with every byte read from r,
// installed starting at origin. It is the inverse of WriteBinary for a
// dump produced with the same origin.
func (p *Program) ReadBinary(r io.Reader, origin Address) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.Image = NewSparseImage()
	return p.Image.PutBytes(origin, buf, true)
}

func (p *Program) String() string {
	return p.Image.HexDump("")
}
