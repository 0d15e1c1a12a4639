package emu

import (
	"fmt"
	"log"
)

// Memory is the bus a Cpu reads from and writes to. Every access must
// advance the associated Clock by exactly one cycle, which is why Load and
// Store take no Clock parameter: an implementation owns its clock and
// charges it internally, so the CPU core never has to remember to do so.
type Memory interface {
	Load(address Address) (byte, error)
	Store(address Address, value byte) error
}

// RAM is a flat 64KiB memory backed by a dense array, filled with
// DenseFill until written. This is the reference Memory implementation:
// every byte is readable and writable, and every access costs one cycle on
// the associated Clock.
type RAM struct {
	Verbose bool
	Clock   Clock
	mem     [65536]byte
}

var _ Memory = (*RAM)(nil)

// NewRAM returns a RAM filled with DenseFill and bound to clock.
func NewRAM(clock Clock) *RAM {
	r := &RAM{Clock: clock}
	for i := range r.mem {
		r.mem[i] = DenseFill
	}
	return r
}

func (r *RAM) Load(address Address) (byte, error) {
	r.Clock.WaitForNextCycle()
	b := r.mem[address]
	if r.Verbose {
		log.Printf("emu: load  0x%04x -> 0x%02x", address, b)
	}
	return b, nil
}

func (r *RAM) Store(address Address, value byte) error {
	r.Clock.WaitForNextCycle()
	if r.Verbose {
		log.Printf("emu: store 0x%04x <- 0x%02x", address, value)
	}
	r.mem[address] = value
	return nil
}

// Write bulk-loads data starting at address without charging the clock,
// for test setup and program loading.
func (r *RAM) Write(address Address, data []byte) {
	for i, b := range data {
		r.mem[address+Address(i)] = b
	}
}

// ReadRange returns a copy of length bytes starting at address without
// charging the clock, for test assertions.
func (r *RAM) ReadRange(address Address, length int) []byte {
	out := make([]byte, length)
	copy(out, r.mem[address:])
	return out
}

// mappedRegion is one entry in a Mapper's routing table.
type mappedRegion struct {
	name      string
	lo, hi    Address
	memory    Memory
}

// Mapper routes an access to whichever registered region's address range
// contains it, the minimal in-core equivalent of a host's memory-mapped
// device table. Regions must not overlap; Map returns an error if they do.
type Mapper struct {
	regions []mappedRegion
}

var _ Memory = (*Mapper)(nil)

// NewMapper returns an empty address-routing table.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map registers memory to answer for every address in [lo, hi] inclusive.
func (m *Mapper) Map(name string, lo, hi Address, memory Memory) error {
	for _, r := range m.regions {
		if lo <= r.hi && hi >= r.lo {
			return fmt.Errorf("region %q [0x%04x,0x%04x] overlaps %q [0x%04x,0x%04x]",
				name, lo, hi, r.name, r.lo, r.hi)
		}
	}
	m.regions = append(m.regions, mappedRegion{name: name, lo: lo, hi: hi, memory: memory})
	return nil
}

func (m *Mapper) find(address Address) (Memory, error) {
	for _, r := range m.regions {
		if address >= r.lo && address <= r.hi {
			return r.memory, nil
		}
	}
	return nil, fmt.Errorf("0x%04x: %w", address, ErrAddressUnmapped)
}

func (m *Mapper) Load(address Address) (byte, error) {
	mem, err := m.find(address)
	if err != nil {
		return 0, err
	}
	return mem.Load(address)
}

func (m *Mapper) Store(address Address, value byte) error {
	mem, err := m.find(address)
	if err != nil {
		return err
	}
	return mem.Store(address, value)
}
