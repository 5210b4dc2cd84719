package sm83

import (
	"github.com/thelolagemann/chipcore/internal/interrupts"
	"github.com/thelolagemann/chipcore/internal/types"
)

// halt enters the halt mode selected by IME and the pending
// interrupts. With IME clear and an interrupt already pending the
// CPU does not halt at all, and the halt bug causes the next opcode
// to be read twice.
func (c *CPU) halt() {
	switch {
	case c.ime:
		c.mode = ModeHalt
	case c.hasInterrupts():
		c.mode = ModeHaltBug
	default:
		c.mode = ModeHaltDI
	}
}

// interruptVector is called while dispatching an interrupt, after
// the high byte of PC has been pushed. That push may have written
// IE when SP was 0x0000, so the pending sources are sampled again:
// when none is left the dispatch is cancelled and PC becomes
// 0x0000, otherwise the highest priority source is acknowledged in
// IF and its vector returned.
func (c *CPU) interruptVector() uint16 {
	flag := c.read(types.IF)
	source, ok := interrupts.Highest(c.read(types.IE) & flag & interrupts.Mask)
	if !ok {
		c.log.Debugf("%s: interrupt dispatch cancelled by IE write", c.arch)
		return 0x0000
	}
	c.write(types.IF, flag&^source.Flag())
	return source.Vector()
}

// disallowedOpcode locks the CPU. The lock is logged once, as the
// opcode is not executed again.
func disallowedOpcode(c *CPU) {
	address := c.pc - 1
	c.log.Errorf("%s: disallowed opcode %02X at %04X, CPU locked", c.arch, c.read(address), address)
	c.mode = ModeLocked
}
