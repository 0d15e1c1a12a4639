package emu

import (
	"fmt"
	"sort"
	"strings"
)

// DenseFill is the byte pattern a dense memory image is initialized with
// before any code or data is loaded into it. 0x55 was chosen by the
// original design to make uninitialized memory obviously distinguishable
// from zeroed memory in a trace or hex dump.
const DenseFill = 0x55

// SparseImage holds the bytes an assembler has placed into the address
// space so far. Unlike a dense 64KiB array, only addresses that have
// actually been written carry a cost, which matters while a program is
// still being assembled across scattered .org regions.
type SparseImage struct {
	bytes map[Address]byte
}

// NewSparseImage returns an empty sparse image.
func NewSparseImage() *SparseImage {
	return &SparseImage{bytes: make(map[Address]byte)}
}

// PutByte stores a single byte at address. If a byte already occupies that
// address and overwrite is false, PutByte returns ErrCollision without
// modifying the image.
func (s *SparseImage) PutByte(address Address, value byte, overwrite bool) error {
	if !overwrite {
		if _, ok := s.bytes[address]; ok {
			return fmt.Errorf("%w: 0x%04x", ErrCollision, address)
		}
	}
	s.bytes[address] = value
	return nil
}

// PutBytes stores a contiguous run of bytes starting at address.
func (s *SparseImage) PutBytes(address Address, data []byte, overwrite bool) error {
	for i, b := range data {
		if err := s.PutByte(address+Address(i), b, overwrite); err != nil {
			return err
		}
	}
	return nil
}

// GetByte returns the byte at address and whether it was ever written.
func (s *SparseImage) GetByte(address Address) (byte, bool) {
	b, ok := s.bytes[address]
	return b, ok
}

// CodeRange returns the lowest and highest addresses that have been
// written. If the image is empty, lo and hi are both zero.
func (s *SparseImage) CodeRange() (lo, hi Address) {
	first := true
	for addr := range s.bytes {
		if first || addr < lo {
			lo = addr
		}
		if first || addr > hi {
			hi = addr
		}
		first = false
	}
	return
}

// DumpDense renders the sparse image as a dense byte slice spanning
// [lo, hi], zero-filling any address never written. Unlike the DenseFill
// pattern an executing machine's memory starts from, a materialized dump
// fills its holes with zero: there is no running program left to
// distinguish "never written" from "written as 0x55".
func (s *SparseImage) DumpDense() []byte {
	lo, hi := s.CodeRange()
	if len(s.bytes) == 0 {
		return nil
	}
	out := make([]byte, int(hi)-int(lo)+1)
	for addr, b := range s.bytes {
		out[int(addr)-int(lo)] = b
	}
	return out
}

// HexDump renders the sparse image as a conventional hex-dump listing,
// one 16-byte row per line, each prefixed with linePrefix.
func (s *SparseImage) HexDump(linePrefix string) string {
	if len(s.bytes) == 0 {
		return ""
	}
	lo, hi := s.CodeRange()
	rowStart := lo - (lo % 16)

	var sb strings.Builder
	for row := rowStart; row <= hi; row += 16 {
		sb.WriteString(linePrefix)
		fmt.Fprintf(&sb, "%04x:", row)
		for col := Address(0); col < 16; col++ {
			addr := row + col
			if b, ok := s.bytes[addr]; ok {
				fmt.Fprintf(&sb, " %02x", b)
			} else {
				sb.WriteString(" --")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Addresses returns every written address in ascending order.
func (s *SparseImage) Addresses() []Address {
	out := make([]Address, 0, len(s.bytes))
	for addr := range s.bytes {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether two sparse images hold identical bytes at
// identical addresses.
func (s *SparseImage) Equal(other *SparseImage) bool {
	if len(s.bytes) != len(other.bytes) {
		return false
	}
	for addr, b := range s.bytes {
		if ob, ok := other.bytes[addr]; !ok || ob != b {
			return false
		}
	}
	return true
}
