// Package assembler6502 implements a line-oriented, two-pass symbolic
// assembler for the NMOS 6502 instruction set described by cpu6502. The
// "two pass" behavior is really one scan plus deferred relocation: every
// forward reference to a not-yet-defined label is recorded as an
// emu.Relocation and patched into the sparse image the moment the label's
// address becomes known, rather than requiring a full second file scan.
package assembler6502
