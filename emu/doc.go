// Package emu implements the address-space primitives shared by the 6502
// CPU core and assembler: the sparse/dense byte image, the symbol and
// relocation tables that make up an assembled Program, and the Memory and
// Clock capability interfaces the CPU consumes to reach a bus.
package emu
