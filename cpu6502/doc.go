// Package cpu6502 implements a cycle-accurate emulation of the NMOS 6502
// microprocessor: its registers and status flags, every legal addressing
// mode, the full documented instruction set (including the JMP ($xxFF)
// indirect page-boundary bug), and a fetch-decode-execute loop that can be
// run instruction-by-instruction or for a bounded wall-clock budget.
//
// A Cpu is driven entirely through the Memory and Clock interfaces of
// package emu; it owns no bus of its own.
package cpu6502
