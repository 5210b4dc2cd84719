package z80

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/cpu"
)

// SetInterruptLine drives the maskable or non-maskable interrupt
// line. The maskable line is level triggered and stays asserted
// until the machine clears it; the NMI line latches on its rising
// edge.
func (c *CPU) SetInterruptLine(kind cpu.InterruptKind, state cpu.LineState) error {
	switch kind {
	case cpu.Maskable:
		c.irqLine = bool(state)
	case cpu.NonMaskable:
		if state == cpu.Assert && !c.nmiLine {
			c.nmiPending = true
		}
		c.nmiLine = bool(state)
	default:
		return fmt.Errorf("z80: interrupt line %d: %w", kind, cpu.ErrUnsupported)
	}
	return nil
}

// SetDataBus sets the byte a device places on the data bus when
// acknowledging a maskable interrupt. It selects the RST in mode 0
// and the table entry in mode 2.
func (c *CPU) SetDataBus(v uint8) {
	c.dataBus = v
}

// handleInterrupts services a pending NMI, or an accepted maskable
// interrupt. No interrupt is accepted between a redundant index
// prefix and the opcode it precedes, and maskable interrupts are
// not accepted directly after EI.
func (c *CPU) handleInterrupts() {
	if c.prefixHeld {
		return
	}
	if c.nmiPending {
		c.nmiPending = false
		c.leaveHalt()
		// an NMI directly after EI saves the enabled state in IFF2
		if c.eiPending {
			c.iff1, c.eiPending = true, false
		}
		c.iff2 = c.iff1
		c.iff1 = false
		c.incR()
		c.call(0x0066)
		c.cycles.Add(nmiCycles)
		c.traceInterrupt(0x0066)
		return
	}

	if !c.irqLine || !c.iff1 || c.eiPending {
		return
	}

	c.leaveHalt()
	c.iff1, c.iff2 = false, false
	c.incR()

	var vector uint16
	switch c.im {
	case 0:
		// only RST instructions are supported on the bus
		vector = 0x0038
		if c.dataBus&0xC7 == 0xC7 {
			vector = uint16(c.dataBus & 0x38)
		}
		c.cycles.Add(im0Cycles)
	case 1:
		vector = 0x0038
		c.cycles.Add(im1Cycles)
	case 2:
		vector = c.read16(uint16(c.I)<<8 | uint16(c.dataBus))
		c.cycles.Add(im2Cycles)
	}
	c.call(vector)
	c.traceInterrupt(vector)
}

// leaveHalt resumes execution after HALT when an interrupt is
// accepted.
func (c *CPU) leaveHalt() {
	c.halted = false
}

func (c *CPU) traceInterrupt(vector uint16) {
	if c.tracer != nil {
		c.trace.Interrupt = true
		c.trace.Vector = vector
	}
}
