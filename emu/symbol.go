package emu

// Symbol is a named address: either a label defined somewhere in the
// program (Offset set) or a forward reference to one that has not been
// defined yet (Offset nil, Imported true).
type Symbol struct {
	Name     string
	Offset   *Address
	Imported bool
	Segment  Segment
}

func (s *Symbol) String() string {
	if s.Offset == nil {
		return s.Name + "=?"
	}
	return s.Name
}

// Alias is a named compile-time constant byte sequence, substitutable
// wherever a literal operand is accepted.
type Alias struct {
	Name  string
	Value []byte
}

// RelocationMode selects how a relocation's target address is encoded
// into the bytes at its Position.
type RelocationMode int

const (
	// RelocationAbsolute patches a little-endian 16-bit address.
	RelocationAbsolute RelocationMode = iota
	// RelocationRelative patches a signed 8-bit branch displacement.
	RelocationRelative
	// RelocationZeroPage patches a single zero-page address byte.
	RelocationZeroPage
)

func (m RelocationMode) String() string {
	switch m {
	case RelocationAbsolute:
		return "absolute"
	case RelocationRelative:
		return "relative"
	case RelocationZeroPage:
		return "zeropage"
	default:
		return "unknown"
	}
}

// Size returns the number of bytes a relocation of this mode patches.
func (m RelocationMode) Size() Address {
	switch m {
	case RelocationAbsolute:
		return 2
	default:
		return 1
	}
}

// Relocation records a not-yet-known address that must be patched into
// the sparse image once Target is defined.
type Relocation struct {
	Target   *Symbol
	Position Address
	Mode     RelocationMode
}
