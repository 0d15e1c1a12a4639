package cpu6502

import (
	"context"
	"log"
	"time"

	"github.com/emu502/emu502/emu"
)

const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe

	stackBase = 0x0100
)

// Cpu is a single emulated 6502 core, bound to a Memory bus and a Clock.
// Decimal mode is a configurable build choice rather than a runtime
// toggle in hardware, but here it is a field so tests can exercise both
// behaviors against the same instruction implementations.
type Cpu struct {
	Verbose     bool
	DecimalMode bool
	StrictStack bool

	Reg    Registers
	Memory emu.Memory
	Clock  emu.Clock

	Ticks int
}

// NewCpu returns a Cpu bound to memory and clock, with decimal-mode ADC/SBC
// enabled by default (the NMOS 6502 datasheet default).
func NewCpu(memory emu.Memory, clock emu.Clock) *Cpu {
	cpu := &Cpu{
		DecimalMode: true,
		Memory:      memory,
		Clock:       clock,
	}
	cpu.Reg.Init()
	return cpu
}

// Reset loads PC from the reset vector, as if the RES line had just been
// asserted and released. It only touches what real hardware touches on
// reset: SP is forced to 0xFD, I is set, D is cleared. A, X, Y and the
// remaining flags keep whatever value they held before reset.
func (cpu *Cpu) Reset() error {
	pc, err := cpu.loadWord(vectorReset)
	if err != nil {
		return err
	}
	cpu.Reg.PC = pc
	cpu.Reg.SP = 0xfd
	cpu.Reg.Set(FlagInterruptDisable, true)
	cpu.Reg.Set(FlagDecimal, false)
	return nil
}

func (cpu *Cpu) log(format string, args ...any) {
	if cpu.Verbose {
		log.Printf(format, args...)
	}
}

func (cpu *Cpu) loadByte(addr emu.Address) (byte, error) {
	return cpu.Memory.Load(addr)
}

func (cpu *Cpu) storeByte(addr emu.Address, v byte) error {
	return cpu.Memory.Store(addr, v)
}

func (cpu *Cpu) loadWord(addr emu.Address) (uint16, error) {
	lo, err := cpu.loadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := cpu.loadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func (cpu *Cpu) push(v byte) error {
	if cpu.StrictStack && cpu.Reg.SP == 0x00 {
		return ErrStackOverflow
	}
	err := cpu.storeByte(stackBase+emu.Address(cpu.Reg.SP), v)
	cpu.Reg.SP--
	return err
}

func (cpu *Cpu) pushWord(v uint16) error {
	if err := cpu.push(byte(v >> 8)); err != nil {
		return err
	}
	return cpu.push(byte(v))
}

func (cpu *Cpu) pop() (byte, error) {
	if cpu.StrictStack && cpu.Reg.SP == 0xff {
		return 0, ErrStackUnderflow
	}
	cpu.Reg.SP++
	return cpu.loadByte(stackBase + emu.Address(cpu.Reg.SP))
}

func (cpu *Cpu) popWord() (uint16, error) {
	lo, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	hi, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// samePage reports whether a and b fall in the same 256-byte page, the
// condition that determines whether an indexed or branch access pays an
// extra cycle.
func samePage(a, b uint16) bool {
	return a&0xff00 == b&0xff00
}

// padCycles charges the clock directly for any cycles an instruction's
// bus accesses did not already account for: the 6502 spends real cycles
// on internal decode and ALU work that never touches the bus, and this is
// where that time is charged so CurrentCycle() matches the opcode table's
// published cycle counts exactly.
func (cpu *Cpu) padCycles(target byte, spent uint64) {
	want := uint64(target)
	for cpu.Clock.CurrentCycle()-spent < want {
		cpu.Clock.WaitForNextCycle()
	}
}

// ExecuteNextInstruction fetches, decodes, and executes exactly one
// instruction at the current PC, returning a non-nil Halt if that
// instruction was BRK or an illegal opcode.
func (cpu *Cpu) ExecuteNextInstruction() (Halt, error) {
	pc := cpu.Reg.PC
	startCycle := cpu.Clock.CurrentCycle()

	opcodeByte, err := cpu.loadByte(pc)
	if err != nil {
		return nil, err
	}
	op, ok := Decode(opcodeByte)
	if !ok {
		return HaltIllegalOpcode{PC: pc, Opcode: opcodeByte}, ErrIllegalOpcode{PC: pc, Opcode: opcodeByte}
	}

	operand := make([]byte, op.Length-1)
	for i := range operand {
		b, err := cpu.loadByte(pc + 1 + emu.Address(i))
		if err != nil {
			return nil, err
		}
		operand[i] = b
	}
	cpu.Reg.PC = pc + uint16(op.Length)

	cpu.log("cpu6502: 0x%04x %s %s %v", pc, op.Mnemonic, op.Mode, operand)

	pageCrossed, extraCycle, halt, err := cpu.execute(op, operand, pc)
	if err != nil {
		if err == ErrStackOverflow || err == ErrStackUnderflow {
			return HaltStackFault{PC: pc, Reason: err}, err
		}
		return halt, err
	}

	target := op.Cycles
	if pageCrossed {
		target += op.PageCycles
	}
	target += extraCycle
	cpu.padCycles(target, startCycle)
	cpu.Ticks++

	if halt != nil {
		return halt, nil
	}
	return nil, nil
}

// RunFor executes instructions until a BRK or illegal opcode halts the
// CPU, budget elapses, or ctx is canceled, checked only at instruction
// boundaries per the cooperative, single-threaded execution model.
func (cpu *Cpu) RunFor(ctx context.Context, budget time.Duration) (Halt, error) {
	deadline := time.Now().Add(budget)
	for {
		select {
		case <-ctx.Done():
			return HaltTimeout{PC: cpu.Reg.PC}, nil
		default:
		}
		if !time.Now().Before(deadline) {
			return HaltTimeout{PC: cpu.Reg.PC}, nil
		}

		halt, err := cpu.ExecuteNextInstruction()
		if err != nil {
			return halt, err
		}
		if halt != nil {
			return halt, nil
		}
	}
}

// IRQ requests a maskable interrupt. It is a no-op if the interrupt
// disable flag is set, matching real hardware.
func (cpu *Cpu) IRQ() error {
	if cpu.Reg.Has(FlagInterruptDisable) {
		return nil
	}
	return cpu.interrupt(false, vectorIRQ)
}

// NMI requests a non-maskable interrupt; unlike IRQ it cannot be masked.
func (cpu *Cpu) NMI() error {
	return cpu.interrupt(false, vectorNMI)
}

func (cpu *Cpu) interrupt(brk bool, vector emu.Address) error {
	if err := cpu.pushWord(cpu.Reg.PC); err != nil {
		return err
	}
	if err := cpu.push(cpu.Reg.SavePS(brk)); err != nil {
		return err
	}
	cpu.Reg.Set(FlagInterruptDisable, true)
	pc, err := cpu.loadWord(vector)
	if err != nil {
		return err
	}
	cpu.Reg.PC = pc
	return nil
}

func (cpu *Cpu) String() string {
	return cpu.Reg.String()
}
