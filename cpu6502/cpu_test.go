package cpu6502

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emu502/emu502/emu"
)

const baseCodeAddress = 0x1770

func newTestCpu() (*Cpu, *emu.RAM, *emu.FreeRunningClock) {
	clock := emu.NewFreeRunningClock()
	ram := emu.NewRAM(clock)
	cpu := NewCpu(ram, clock)
	cpu.Reg.PC = baseCodeAddress
	return cpu, ram, clock
}

func TestCpu_LDA_Immediate(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, clock := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0xa9, 0x42})

	halt, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Nil(halt)
	assert.Equal(byte(0x42), cpu.Reg.A)
	assert.False(cpu.Reg.Has(FlagZero))
	assert.False(cpu.Reg.Has(FlagNegative))
	assert.Equal(uint64(2), clock.CurrentCycle())
}

func TestCpu_LDA_SetsZeroFlag(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0xa9, 0x00})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.True(cpu.Reg.Has(FlagZero))
}

func TestCpu_LDA_AbsoluteX_PageCross(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, clock := newTestCpu()
	cpu.Reg.X = 0xff
	ram.Write(baseCodeAddress, []byte{0xbd, 0x01, 0x20}) // LDA $2001,X -> $2100
	ram.Write(0x2100, []byte{0x77})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(byte(0x77), cpu.Reg.A)
	assert.Equal(uint64(5), clock.CurrentCycle()) // 4 base + 1 page-cross
}

func TestCpu_STA_AbsoluteX_NoPageCrossPenalty(t *testing.T) {
	assert := assert.New(t)

	cpu, _, clock := newTestCpu()
	cpu.Reg.A = 0x55
	cpu.Reg.X = 0xff

	ram := emu.NewRAM(clock)
	cpu.Memory = ram
	ram.Write(baseCodeAddress, []byte{0x9d, 0x01, 0x20}) // STA $2001,X -> $2100

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint64(5), clock.CurrentCycle(), "writes always pay the worst-case cycle count")

	b := ram.ReadRange(0x2100, 1)
	assert.Equal(byte(0x55), b[0])
}

func TestCpu_ADC_Binary(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	cpu.DecimalMode = false
	cpu.Reg.A = 0x01
	ram.Write(baseCodeAddress, []byte{0x69, 0x01})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(byte(0x02), cpu.Reg.A)
	assert.False(cpu.Reg.Has(FlagCarry))
}

func TestCpu_ADC_BinaryOverflow(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	cpu.DecimalMode = false
	cpu.Reg.A = 0x7f
	ram.Write(baseCodeAddress, []byte{0x69, 0x01})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(byte(0x80), cpu.Reg.A)
	assert.True(cpu.Reg.Has(FlagOverflow))
	assert.True(cpu.Reg.Has(FlagNegative))
}

func TestCpu_ADC_Decimal(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	cpu.Reg.Set(FlagDecimal, true)
	cpu.Reg.A = 0x09 // BCD 9
	ram.Write(baseCodeAddress, []byte{0x69, 0x01})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(byte(0x10), cpu.Reg.A, "9 + 1 in BCD is 10, not 0x0a")
	assert.False(cpu.Reg.Has(FlagCarry))
}

func TestCpu_SBC_Decimal(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	cpu.Reg.Set(FlagDecimal, true)
	cpu.Reg.Set(FlagCarry, true) // no borrow
	cpu.Reg.A = 0x10
	ram.Write(baseCodeAddress, []byte{0xe9, 0x01})

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(byte(0x09), cpu.Reg.A)
}

func TestCpu_Branch_NotTaken(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, clock := newTestCpu()
	cpu.Reg.Set(FlagZero, false)
	ram.Write(baseCodeAddress, []byte{0xf0, 0x10}) // BEQ +16, not taken

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint16(baseCodeAddress+2), cpu.Reg.PC)
	assert.Equal(uint64(2), clock.CurrentCycle())
}

func TestCpu_Branch_TakenSamePage(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, clock := newTestCpu()
	cpu.Reg.Set(FlagZero, true)
	ram.Write(baseCodeAddress, []byte{0xf0, 0x10}) // BEQ +16, taken

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint16(baseCodeAddress+2+0x10), cpu.Reg.PC)
	assert.Equal(uint64(3), clock.CurrentCycle())
}

func TestCpu_Branch_TakenCrossesPage(t *testing.T) {
	assert := assert.New(t)

	clock := emu.NewFreeRunningClock()
	ram := emu.NewRAM(clock)
	cpu := NewCpu(ram, clock)
	cpu.Reg.PC = 0x10f0
	cpu.Reg.Set(FlagZero, true)
	ram.Write(0x10f0, []byte{0xf0, 0x20}) // BEQ +32 -> crosses into 0x1100s page

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint64(4), clock.CurrentCycle())
}

func TestCpu_JSR_RTS_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0x20, 0x00, 0x30}) // JSR $3000
	ram.Write(0x3000, []byte{0x60})                      // RTS

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint16(0x3000), cpu.Reg.PC)

	_, err = cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint16(baseCodeAddress+3), cpu.Reg.PC)
}

func TestCpu_BRK_Halts(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(0xfffe, []byte{0x00, 0x40}) // BRK vector -> 0x4000
	ram.Write(baseCodeAddress, []byte{0x00})

	halt, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.IsType(HaltBrk{}, halt)
	assert.Equal(uint16(0x4000), cpu.Reg.PC)
}

func TestCpu_IllegalOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0x02}) // not a legal NMOS opcode

	halt, err := cpu.ExecuteNextInstruction()
	assert.Error(err)
	assert.ErrorIs(err, ErrIllegalOpcode{})
	assert.IsType(HaltIllegalOpcode{}, halt)
}

func TestCpu_JMP_IndirectPageBug(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0x6c, 0xff, 0x30}) // JMP ($30FF)
	ram.Write(0x30ff, []byte{0x34})                      // low byte of target
	ram.Write(0x3000, []byte{0x12})                      // high byte wrongly read from $3000, not $3100
	ram.Write(0x3100, []byte{0x99})                      // what a fixed CPU would have read instead

	_, err := cpu.ExecuteNextInstruction()
	assert.NoError(err)
	assert.Equal(uint16(0x1234), cpu.Reg.PC)
}

func TestCpu_RunFor_Timeout(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(baseCodeAddress, []byte{0x4c, 0x70, 0x17}) // JMP $1770 (self)

	halt, err := cpu.RunFor(context.Background(), 20*time.Millisecond)
	assert.NoError(err)
	assert.IsType(HaltTimeout{}, halt)
}

func TestCpu_StackWraps_WithoutStrictChecking(t *testing.T) {
	assert := assert.New(t)

	cpu, _, _ := newTestCpu()
	cpu.Reg.SP = 0x00

	err := cpu.push(0x42)
	assert.NoError(err)
	assert.Equal(byte(0xff), cpu.Reg.SP)
}

func TestCpu_StackFault_WithStrictChecking(t *testing.T) {
	assert := assert.New(t)

	cpu, _, _ := newTestCpu()
	cpu.StrictStack = true
	cpu.Reg.SP = 0x00

	err := cpu.push(0x42)
	assert.ErrorIs(err, ErrStackOverflow)
}

func TestCpu_IRQ_VectorsAndSavesState(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(0xfffe, []byte{0x00, 0x90}) // IRQ vector -> $9000
	cpu.Reg.SP = 0xff
	cpu.Reg.Set(FlagInterruptDisable, false) // Init leaves I set, which would mask the IRQ

	err := cpu.IRQ()
	assert.NoError(err)
	assert.Equal(uint16(0x9000), cpu.Reg.PC)
	assert.True(cpu.Reg.Has(FlagInterruptDisable))

	p, _ := ram.Load(0x01fd)
	assert.False(Flag(p)&FlagBreak != 0, "IRQ must push P with B clear")
	lo, _ := ram.Load(0x01fe)
	hi, _ := ram.Load(0x01ff)
	assert.Equal(uint16(baseCodeAddress), uint16(lo)|uint16(hi)<<8)
}

func TestCpu_IRQ_MaskedByInterruptDisable(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(0xfffe, []byte{0x00, 0x90})
	cpu.Reg.Set(FlagInterruptDisable, true)
	sp := cpu.Reg.SP

	err := cpu.IRQ()
	assert.NoError(err)
	assert.Equal(uint16(baseCodeAddress), cpu.Reg.PC, "a masked IRQ must not vector")
	assert.Equal(sp, cpu.Reg.SP, "a masked IRQ must not touch the stack")
}

func TestCpu_NMI_CannotBeMasked(t *testing.T) {
	assert := assert.New(t)

	cpu, ram, _ := newTestCpu()
	ram.Write(0xfffa, []byte{0x00, 0x80}) // NMI vector -> $8000
	cpu.Reg.Set(FlagInterruptDisable, true)

	err := cpu.NMI()
	assert.NoError(err)
	assert.Equal(uint16(0x8000), cpu.Reg.PC)
}
