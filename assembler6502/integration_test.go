package assembler6502

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu502/emu502/cpu6502"
	"github.com/emu502/emu502/emu"
)

// loadProgram copies every written byte of prog into ram without charging
// the clock, the same bulk-load path a loader uses ahead of execution.
func loadProgram(ram *emu.RAM, prog *emu.Program) {
	for _, addr := range prog.Image.Addresses() {
		b, _ := prog.Image.GetByte(addr)
		ram.Write(addr, []byte{b})
	}
}

// assembleAndRun assembles src, loads it into a fresh RAM-backed machine,
// sets PC to start, and runs until halt or timeout.
func assembleAndRun(t *testing.T, src string, start emu.Address, timeout time.Duration) (*cpu6502.Cpu, *emu.RAM, cpu6502.Halt) {
	t.Helper()
	prog := assemble(t, src)

	clock := emu.NewFreeRunningClock()
	ram := emu.NewRAM(clock)
	loadProgram(ram, prog)

	cpu := cpu6502.NewCpu(ram, clock)
	cpu.Reg.PC = start

	halt, err := cpu.RunFor(context.Background(), timeout)
	require.NoError(t, err)
	return cpu, ram, halt
}

func TestIntegration_SimpleAddition(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, halt := assembleAndRun(t, `
.org $0200
LDA #$05
CLC
ADC #$03
STA $10
BRK
`, 0x0200, time.Second)

	assert.IsType(cpu6502.HaltBrk{}, halt)
	assert.Equal(byte(0x08), cpu.Reg.A)
	assert.Equal(byte(0x08), ram.ReadRange(0x10, 1)[0])
	assert.False(cpu.Reg.Has(cpu6502.FlagCarry))
	assert.False(cpu.Reg.Has(cpu6502.FlagZero))
	assert.False(cpu.Reg.Has(cpu6502.FlagNegative))
}

func TestIntegration_BackwardBranchLoop(t *testing.T) {
	assert := assert.New(t)

	cpu, _, halt := assembleAndRun(t, `
.org $0200
LDX #10
LDA #0
CLC
loop:
STX $00
ADC $00
DEX
BNE loop
BRK
`, 0x0200, time.Second)

	assert.IsType(cpu6502.HaltBrk{}, halt)
	assert.Equal(byte(55), cpu.Reg.A)
	assert.Equal(byte(0), cpu.Reg.X)
	assert.True(cpu.Reg.Has(cpu6502.FlagZero))
}

func TestIntegration_JSRRTS(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
.org $1000
JSR sub
BRK
.org $2000
sub:
LDA #$AA
STA $0300
RTS
`)

	clock := emu.NewFreeRunningClock()
	ram := emu.NewRAM(clock)
	loadProgram(ram, prog)

	cpu := cpu6502.NewCpu(ram, clock)
	cpu.Reg.PC = 0x1000
	initialSP := cpu.Reg.SP

	// JSR, LDA, STA, RTS: stop short of BRK so the stack-depth assertion
	// below observes the state right after the subroutine returns.
	for i := 0; i < 4; i++ {
		halt, err := cpu.ExecuteNextInstruction()
		assert.NoError(err)
		assert.Nil(halt)
	}

	assert.Equal(uint16(0x1003), cpu.Reg.PC)
	assert.Equal(initialSP, cpu.Reg.SP)
	assert.Equal(byte(0xaa), ram.ReadRange(0x0300, 1)[0])
}

func TestIntegration_Timeout(t *testing.T) {
	assert := assert.New(t)

	cpu, _, halt := assembleAndRun(t, `
.org $0200
loop:
JMP loop
`, 0x0200, 20*time.Millisecond)

	assert.IsType(cpu6502.HaltTimeout{}, halt)
	assert.True(cpu.Clock.CurrentCycle() > 0)
}

// crc8Table256 is the lookup table a table-driven CRC-8 over this
// polynomial reduces to: crc = table[crc ^ data[i]] for every input byte.
var crc8Table256 = [256]byte{
	0xea, 0xd4, 0x96, 0xa8, 0x12, 0x2c, 0x6e, 0x50,
	0x7f, 0x41, 0x03, 0x3d, 0x87, 0xb9, 0xfb, 0xc5,
	0xa5, 0x9b, 0xd9, 0xe7, 0x5d, 0x63, 0x21, 0x1f,
	0x30, 0x0e, 0x4c, 0x72, 0xc8, 0xf6, 0xb4, 0x8a,
	0x74, 0x4a, 0x08, 0x36, 0x8c, 0xb2, 0xf0, 0xce,
	0xe1, 0xdf, 0x9d, 0xa3, 0x19, 0x27, 0x65, 0x5b,
	0x3b, 0x05, 0x47, 0x79, 0xc3, 0xfd, 0xbf, 0x81,
	0xae, 0x90, 0xd2, 0xec, 0x56, 0x68, 0x2a, 0x14,
	0xb3, 0x8d, 0xcf, 0xf1, 0x4b, 0x75, 0x37, 0x09,
	0x26, 0x18, 0x5a, 0x64, 0xde, 0xe0, 0xa2, 0x9c,
	0xfc, 0xc2, 0x80, 0xbe, 0x04, 0x3a, 0x78, 0x46,
	0x69, 0x57, 0x15, 0x2b, 0x91, 0xaf, 0xed, 0xd3,
	0x2d, 0x13, 0x51, 0x6f, 0xd5, 0xeb, 0xa9, 0x97,
	0xb8, 0x86, 0xc4, 0xfa, 0x40, 0x7e, 0x3c, 0x02,
	0x62, 0x5c, 0x1e, 0x20, 0x9a, 0xa4, 0xe6, 0xd8,
	0xf7, 0xc9, 0x8b, 0xb5, 0x0f, 0x31, 0x73, 0x4d,
	0x58, 0x66, 0x24, 0x1a, 0xa0, 0x9e, 0xdc, 0xe2,
	0xcd, 0xf3, 0xb1, 0x8f, 0x35, 0x0b, 0x49, 0x77,
	0x17, 0x29, 0x6b, 0x55, 0xef, 0xd1, 0x93, 0xad,
	0x82, 0xbc, 0xfe, 0xc0, 0x7a, 0x44, 0x06, 0x38,
	0xc6, 0xf8, 0xba, 0x84, 0x3e, 0x00, 0x42, 0x7c,
	0x53, 0x6d, 0x2f, 0x11, 0xab, 0x95, 0xd7, 0xe9,
	0x89, 0xb7, 0xf5, 0xcb, 0x71, 0x4f, 0x0d, 0x33,
	0x1c, 0x22, 0x60, 0x5e, 0xe4, 0xda, 0x98, 0xa6,
	0x01, 0x3f, 0x7d, 0x43, 0xf9, 0xc7, 0x85, 0xbb,
	0x94, 0xaa, 0xe8, 0xd6, 0x6c, 0x52, 0x10, 0x2e,
	0x4e, 0x70, 0x32, 0x0c, 0xb6, 0x88, 0xca, 0xf4,
	0xdb, 0xe5, 0xa7, 0x99, 0x23, 0x1d, 0x5f, 0x61,
	0x9f, 0xa1, 0xe3, 0xdd, 0x67, 0x59, 0x1b, 0x25,
	0x0a, 0x34, 0x76, 0x48, 0xf2, 0xcc, 0x8e, 0xb0,
	0xd0, 0xee, 0xac, 0x92, 0x28, 0x16, 0x54, 0x6a,
	0x45, 0x7b, 0x39, 0x07, 0xbd, 0x83, 0xc1, 0xff,
}

// referenceCRC8 computes the same table-driven CRC-8 the assembled CRC8_LOOP
// below performs, so the test checks the emulator against an independent
// Go implementation rather than a hand-computed constant.
func referenceCRC8(table [256]byte, data []byte) byte {
	var crc byte
	for _, d := range data {
		crc = table[crc^d]
	}
	return crc
}

func byteList(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("$%02x", b)
	}
	return strings.Join(parts, ", ")
}

func TestIntegration_CRC8(t *testing.T) {
	assert := assert.New(t)

	testData := make([]byte, 128)
	for i := range testData {
		testData[i] = byte(i*167 + 13)
	}
	want := referenceCRC8(crc8Table256, testData)

	src := fmt.Sprintf(`
.org $2000
START:
NOP

LDX #$00
LDA #$00

CRC8_LOOP:
CPX TEST_DATA_SIZE
BEQ CRC8_FINISH

EOR TEST_DATA,X
TAY
LDA CRC8_TABLE,Y

INX
BNE CRC8_LOOP

CRC8_FINISH:
STA RESULT_CRC8_VALUE
BRK

.org $3000
CRC8_TABLE:
.byte %s

.org $4000
TEST_DATA_SIZE:
.byte $%02x
RESULT_CRC8_VALUE:
.byte $00

.org $4100
TEST_DATA:
.byte %s
`, byteList(crc8Table256[:]), len(testData), byteList(testData))

	_, ram, halt := assembleAndRun(t, src, 0x2000, 5*time.Second)
	assert.IsType(cpu6502.HaltBrk{}, halt)

	got := ram.ReadRange(0x4001, 1)[0]
	assert.Equal(want, got)
}
