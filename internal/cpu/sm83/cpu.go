// Package sm83 implements the Sharp SM83 interpreter core of the
// Game Boy, and the Game Boy Color variant with its double speed
// switch.
package sm83

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/interrupts"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
	// stateVersion is the layout version of Save.
	stateVersion = 1
)

type mode = uint8

const (
	// ModeNormal is the normal CPU mode.
	ModeNormal mode = iota
	// ModeHalt is the halt CPU mode, entered with IME set.
	ModeHalt
	// ModeStop is the stop CPU mode.
	ModeStop
	// ModeHaltBug is entered by HALT when IME is clear and an
	// interrupt is already pending: the next opcode is read
	// without incrementing PC, so it executes twice.
	ModeHaltBug
	// ModeHaltDI is the halt mode entered with IME clear. It is
	// left without servicing the interrupt that wakes it.
	ModeHaltDI
	// ModeEnableIME is set by EI: IME is enabled at the start of
	// the next Step.
	ModeEnableIME
	// ModeLocked is entered by an illegal opcode. Only Reset
	// leaves it.
	ModeLocked
)

var modeNames = [...]string{"normal", "halt", "stop", "halt bug", "halt (DI)", "enable IME", "locked"}

type instructionSet = cpu.InstructionSet[*CPU]

// CPU represents the Game Boy CPU. It is responsible for executing
// instructions. Memory, including the IF and IE registers, is
// reached through the bus callbacks it was constructed with.
type CPU struct {
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	types.Registers

	// PC is the program counter, it points to the next instruction to be executed.
	pc uint16
	// SP is the stack pointer, it points to the top of the stack.
	sp uint16

	ime  bool
	mode mode

	// stopHook is called by STOP once the operand has been
	// skipped. When it returns true STOP does not enter ModeStop.
	stopHook func(c *CPU) bool

	cycles cpu.Cycles
	bus    cpu.Bus

	tracer cpu.Tracer
	trace  cpu.Trace
	arch   types.Arch
	log    log.Logger
}

var _ cpu.Core = (*CPU)(nil)

// New returns a new CPU configured by the given options, in its
// power-on state. Startup must be called before the first Step.
func New(opts ...Opt) *CPU {
	c := &CPU{
		log:  log.NewNullLogger(),
		arch: types.ArchSM83,
	}
	c.Registers.Init()

	for _, opt := range opts {
		opt(c)
	}
	c.Reset()

	return c
}

// Startup validates that the memory callbacks were supplied.
func (c *CPU) Startup() error {
	if err := c.bus.Validate(false); err != nil {
		return fmt.Errorf("%s: startup: %w", c.arch, err)
	}
	c.log.Debugf("%s: started, tracing=%v", c.arch, c.tracer != nil)
	return nil
}

// Reset clears every register and leaves the CPU running at 0x0000
// with IME clear, as it is when the boot ROM starts.
func (c *CPU) Reset() {
	c.AF.SetUint16(0)
	c.BC.SetUint16(0)
	c.DE.SetUint16(0)
	c.HL.SetUint16(0)
	c.pc, c.sp = 0, 0
	c.ime = false
	c.mode = ModeNormal
	c.cycles.Reset()
}

// SkipBoot seeds the registers the boot ROM of model leaves behind,
// so that a cartridge can be started at 0x0100 without one.
func (c *CPU) SkipBoot(model types.Model) {
	regs, ok := types.ModelRegisters[model]
	if !ok {
		regs = types.ModelRegisters[types.Unset]
	}
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = regs[0], regs[1], regs[2], regs[3], regs[4], regs[5], regs[6], regs[7]
	c.sp = 0xFFFE
	c.pc = 0x0100
}

// Step executes a single instruction, or idles for one machine
// cycle when halted or stopped, then services the highest priority
// pending interrupt if IME allows it. It returns the number of
// T-states elapsed.
func (c *CPU) Step() int {
	c.cycles.Reset()
	if c.tracer != nil {
		c.trace = cpu.Trace{Arch: string(c.arch), PC: c.pc}
	}

	reqInt := false
	switch c.mode {
	case ModeNormal:
		c.runInstruction(c.readInstruction())

		// check for interrupts, in normal mode this requires the IME to be enabled
		reqInt = c.ime && c.hasInterrupts()
	case ModeHalt, ModeStop:
		// the CPU idles, but does not execute any instructions
		c.idle()

		// IME is ignored here, so that the CPU can be woken up by
		// any pending interrupt
		reqInt = c.hasInterrupts()
	case ModeHaltDI:
		c.idle()

		if c.hasInterrupts() {
			c.mode = ModeNormal
		}
	case ModeEnableIME:
		// enable IME, then run one instruction before interrupts are checked
		c.ime = true
		c.mode = ModeNormal
		c.runInstruction(c.readInstruction())

		reqInt = c.ime && c.hasInterrupts()
		if reqInt && c.mode == ModeHalt {
			// EI ; HALT with an interrupt pending: the return address
			// is the HALT itself, which executes again after RETI
			c.pc--
			c.mode = ModeNormal
		}
	case ModeHaltBug:
		c.mode = ModeNormal
		instr := c.readInstruction()
		c.pc--
		c.runInstruction(instr)

		reqInt = c.ime && c.hasInterrupts()
	case ModeLocked:
		c.idle()
	}

	// did we get an interrupt?
	if reqInt {
		c.executeInterrupt()
	}

	if c.tracer != nil {
		c.trace.Cycles = c.cycles.Total()
		c.trace.Registers = c.String()
		c.tracer.Trace(c.trace)
	}

	return c.cycles.Total()
}

func (c *CPU) idle() {
	c.cycles.Add(haltCycles)
	if c.tracer != nil {
		c.trace.Name = "(" + modeNames[c.mode] + ")"
	}
}

// hasInterrupts reports whether any interrupt is both requested and
// enabled.
func (c *CPU) hasInterrupts() bool {
	return c.read(types.IE)&c.read(types.IF)&interrupts.Mask != 0
}

// RequestInterrupt requests source by setting its bit in IF through
// the bus.
func (c *CPU) RequestInterrupt(source interrupts.Source) error {
	if !source.Valid() {
		return fmt.Errorf("%s: request interrupt %s: %w", c.arch, source, cpu.ErrUnsupported)
	}
	c.write(types.IF, c.read(types.IF)|source.Flag())
	return nil
}

// executeInterrupt services the highest priority pending interrupt
// if IME is set, and returns the CPU to normal mode either way.
func (c *CPU) executeInterrupt() {
	if c.ime {
		c.ime = false

		// save the high byte of the PC
		c.sp--
		c.write(c.sp, uint8(c.pc>>8))

		vector := c.interruptVector()

		// save the low byte of the PC
		c.sp--
		c.write(c.sp, uint8(c.pc))

		c.pc = vector
		c.cycles.Add(interruptCycles)

		if c.tracer != nil {
			c.trace.Interrupt = true
			c.trace.Vector = vector
		}
	}

	// set the mode to normal
	c.mode = ModeNormal
}

// readInstruction reads the next opcode from memory.
func (c *CPU) readInstruction() uint8 {
	value := c.bus.Read(c.pc)
	c.pc++
	if c.tracer != nil && c.trace.Length < uint8(len(c.trace.Opcodes)) {
		c.trace.Opcodes[c.trace.Length] = value
		c.trace.Length++
	}
	return value
}

// readOperand reads the next operand from memory.
func (c *CPU) readOperand() uint8 {
	value := c.bus.Read(c.pc)
	c.pc++
	return value
}

// readOperand16 reads the next little endian operand word.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
}

// runInstruction executes opcode from the base table, and charges
// its base cost.
func (c *CPU) runInstruction(opcode uint8) {
	c.dispatch(baseSet, opcode)
}

func (c *CPU) dispatch(set *instructionSet, opcode uint8) {
	if c.tracer != nil {
		c.trace.Name = set.Name(opcode)
	}
	c.cycles.Add(set.Execute(c, opcode))
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Halted reports whether the CPU is waiting in HALT or STOP.
func (c *CPU) Halted() bool {
	return c.mode == ModeHalt || c.mode == ModeHaltDI || c.mode == ModeStop
}

// Locked reports whether the CPU executed an illegal opcode.
func (c *CPU) Locked() bool { return c.mode == ModeLocked }

// IME returns the interrupt master enable flag.
func (c *CPU) IME() bool { return c.ime }

// Mode returns the current CPU mode.
func (c *CPU) Mode() uint8 { return c.mode }

// The setters below seed register values at machine reset, for
// example to skip the boot ROM.

func (c *CPU) SetPC(v uint16) { c.pc = v }
func (c *CPU) SetSP(v uint16) { c.sp = v }
func (c *CPU) SetAF(v uint16) { c.AF.SetUint16(v & 0xFFF0) }
func (c *CPU) SetBC(v uint16) { c.BC.SetUint16(v) }
func (c *CPU) SetDE(v uint16) { c.DE.SetUint16(v) }
func (c *CPU) SetHL(v uint16) { c.HL.SetUint16(v) }

func (c *CPU) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X IME=%v",
		c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.sp, c.pc, c.ime)
}
