package emu

// Address is a 16-bit byte address, matching the 6502's address bus width.
type Address = uint16

// Offset is a signed 16-bit displacement, wide enough to hold the
// difference between any two Addresses.
type Offset = int16

// NearOffset is a signed 8-bit displacement, the encoding used by the
// relative-branch addressing mode.
type NearOffset = int8

// Segment classifies a Symbol by the kind of storage it names. Segment is
// informational only: it does not affect assembly or execution, but lets a
// disassembler or linter report what a label was meant for.
type Segment int

const (
	SegmentUnknown Segment = iota
	SegmentZeroPage
	SegmentCode
	SegmentData
	SegmentRoData
	SegmentAbsoluteAddress
)

func (s Segment) String() string {
	switch s {
	case SegmentZeroPage:
		return "zeropage"
	case SegmentCode:
		return "code"
	case SegmentData:
		return "data"
	case SegmentRoData:
		return "rodata"
	case SegmentAbsoluteAddress:
		return "absolute"
	default:
		return "unknown"
	}
}

// RelativeJumpOffset computes the signed 8-bit displacement a relative
// branch must encode to reach target. position is the address of the byte
// immediately following the one-byte operand (i.e. where the PC sits once
// the branch instruction has been fully fetched), since that is the base
// the 6502 adds the offset to when the branch is taken.
func RelativeJumpOffset(position, target Address) (NearOffset, error) {
	delta := int32(target) - int32(position)
	if delta < -128 || delta > 127 {
		return 0, ErrRelocationRange
	}
	return NearOffset(delta), nil
}
