// Package z80 implements a Zilog Z80 interpreter core, as used by
// the SG-1000, SC-3000, Master System, Game Gear and ColecoVision.
package z80

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/log"
)

const (
	// ClockSpeed is the NTSC Master System clock in Hz.
	ClockSpeed = 3579545
	// stateVersion is the layout version of Save.
	stateVersion = 1
)

type instructionSet = cpu.InstructionSet[*CPU]

// shadowRegisters is the alternate register set swapped in by
// EX AF, AF' and EXX.
type shadowRegisters struct {
	A, F, B, C, D, E, H, L types.Register
}

// CPU is a Z80 interpreter core. It owns its registers and
// interrupt state, and reaches memory and I/O ports through the
// callbacks it was constructed with.
type CPU struct {
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	types.Registers
	shadow shadowRegisters

	// IXH, IXL, IYH and IYL are the halves of the index registers.
	IXH, IXL, IYH, IYL types.Register
	IX, IY            *types.RegisterPair
	// I is the interrupt vector base, R the memory refresh counter.
	I, R types.Register

	pc, sp uint16
	// wz is the internal address register (MEMPTR). It is not
	// visible, except through the X and Y flags of BIT n, (HL).
	wz uint16

	iff1, iff2 bool
	im         uint8
	eiPending  bool
	halted     bool
	// prefixHeld is set when a redundant DD or FD prefix was consumed,
	// which blocks interrupts until the next prefix is executed.
	prefixHeld bool

	irqLine    bool
	nmiLine    bool
	nmiPending bool
	dataBus    uint8

	// indexAddr is the effective address of a DDCB/FDCB instruction.
	indexAddr uint16

	cycles cpu.Cycles
	bus    cpu.Bus

	tracer cpu.Tracer
	trace  cpu.Trace
	log    log.Logger
}

var _ cpu.Core = (*CPU)(nil)

// New returns a new CPU configured by the given options, in its
// power-on state. Startup must be called before the first Step.
func New(opts ...Opt) *CPU {
	c := &CPU{
		log:     log.NewNullLogger(),
		dataBus: 0xFF,
	}
	c.Registers.Init()
	c.IX = &types.RegisterPair{High: &c.IXH, Low: &c.IXL}
	c.IY = &types.RegisterPair{High: &c.IYH, Low: &c.IYL}

	for _, opt := range opts {
		opt(c)
	}
	c.Reset()

	return c
}

// Startup validates that the memory and port callbacks were
// supplied. A missing callback is a configuration error that must
// stop emulation.
func (c *CPU) Startup() error {
	if err := c.bus.Validate(true); err != nil {
		return fmt.Errorf("z80: startup: %w", err)
	}
	c.log.Debugf("z80: started, tracing=%v", c.tracer != nil)
	return nil
}

// Reset restores the power-on state: AF, SP and the index
// registers hold 0xFFFF, everything else is cleared, interrupts
// are disabled in mode 0.
func (c *CPU) Reset() {
	c.AF.SetUint16(0xFFFF)
	c.BC.SetUint16(0)
	c.DE.SetUint16(0)
	c.HL.SetUint16(0)
	c.shadow = shadowRegisters{}
	c.IX.SetUint16(0xFFFF)
	c.IY.SetUint16(0xFFFF)
	c.I, c.R = 0, 0

	c.pc, c.sp, c.wz = 0, 0xFFFF, 0
	c.iff1, c.iff2, c.im = false, false, 0
	c.eiPending, c.halted, c.prefixHeld = false, false, false
	c.irqLine, c.nmiLine, c.nmiPending = false, false, false
	c.indexAddr = 0
	c.cycles.Reset()
}

// Step executes a single instruction, or idles for one instruction
// time when halted, then services a pending interrupt if one is
// accepted. It returns the number of T-states elapsed.
func (c *CPU) Step() int {
	c.cycles.Reset()
	if c.tracer != nil {
		c.trace = cpu.Trace{Arch: string(types.ArchZ80), PC: c.pc}
	}

	// an EI executed by the previous Step takes effect now
	if c.eiPending {
		c.iff1, c.iff2 = true, true
		c.eiPending = false
	}
	c.prefixHeld = false

	if c.halted {
		// the CPU keeps executing NOPs internally, refreshing memory
		c.incR()
		c.cycles.Add(haltCycles)
		if c.tracer != nil {
			c.trace.Name = "(halted)"
		}
	} else {
		c.dispatch(baseSet, c.fetchOpcode())
	}

	c.handleInterrupts()

	if c.tracer != nil {
		c.trace.Cycles = c.cycles.Total()
		c.trace.Registers = c.String()
		c.tracer.Trace(c.trace)
	}

	return c.cycles.Total()
}

// dispatch executes opcode from the given table and charges its
// base cost.
func (c *CPU) dispatch(set *instructionSet, opcode uint8) {
	if c.tracer != nil {
		c.trace.Name = set.Name(opcode)
	}
	c.cycles.Add(set.Execute(c, opcode))
}

// fetchOpcode reads an opcode or prefix byte at PC. Opcode fetches
// are M1 cycles, which increment the lower 7 bits of R.
func (c *CPU) fetchOpcode() uint8 {
	op := c.bus.Read(c.pc)
	c.pc++
	c.incR()
	if c.tracer != nil && c.trace.Length < uint8(len(c.trace.Opcodes)) {
		c.trace.Opcodes[c.trace.Length] = op
		c.trace.Length++
	}
	return op
}

func (c *CPU) incR() {
	c.R = c.R&0x80 | (c.R+1)&0x7F
}

func (c *CPU) decR() {
	c.R = c.R&0x80 | (c.R-1)&0x7F
}

// fetch reads an operand byte at PC.
func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

// fetch16 reads a little endian operand word at PC.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
}

func (c *CPU) read16(address uint16) uint16 {
	return uint16(c.bus.Read(address)) | uint16(c.bus.Read(address+1))<<8
}

func (c *CPU) write16(address uint16, value uint16) {
	c.bus.Write(address, uint8(value))
	c.bus.Write(address+1, uint8(value>>8))
}

func (c *CPU) push(value uint16) {
	c.sp--
	c.bus.Write(c.sp, uint8(value>>8))
	c.sp--
	c.bus.Write(c.sp, uint8(value))
}

func (c *CPU) pop() uint16 {
	v := c.read16(c.sp)
	c.sp += 2
	return v
}

func (c *CPU) in(port uint8) uint8 {
	return c.bus.In(port)
}

func (c *CPU) out(port uint8, value uint8) {
	c.bus.Out(port, value)
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Halted reports whether the CPU is waiting in HALT.
func (c *CPU) Halted() bool { return c.halted }

// IFF returns the two interrupt enable flip-flops.
func (c *CPU) IFF() (iff1, iff2 bool) { return c.iff1, c.iff2 }

// IM returns the interrupt mode.
func (c *CPU) IM() uint8 { return c.im }

// The setters below seed register values at machine reset, for
// example to skip a BIOS.

func (c *CPU) SetPC(v uint16) { c.pc = v }
func (c *CPU) SetSP(v uint16) { c.sp = v }
func (c *CPU) SetAF(v uint16) { c.AF.SetUint16(v) }
func (c *CPU) SetBC(v uint16) { c.BC.SetUint16(v) }
func (c *CPU) SetDE(v uint16) { c.DE.SetUint16(v) }
func (c *CPU) SetHL(v uint16) { c.HL.SetUint16(v) }
func (c *CPU) SetIX(v uint16) { c.IX.SetUint16(v) }
func (c *CPU) SetIY(v uint16) { c.IY.SetUint16(v) }

// SetIM sets the interrupt mode, as IM 0/1/2 would.
func (c *CPU) SetIM(mode uint8) { c.im = mode % 3 }

func (c *CPU) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X IR=%02X%02X",
		c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.IX.Uint16(), c.IY.Uint16(), c.sp, c.pc, c.I, c.R)
}
