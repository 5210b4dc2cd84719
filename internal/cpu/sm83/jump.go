package sm83

import "fmt"

// pushStack pushes value onto the stack, high byte first.
func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.write(c.sp, uint8(value>>8))
	c.sp--
	c.write(c.sp, uint8(value))
}

// popStack pops a value from the stack.
func (c *CPU) popStack() uint16 {
	low := c.read(c.sp)
	c.sp++
	high := c.read(c.sp)
	c.sp++
	return uint16(high)<<8 | uint16(low)
}

// call pushes the address of the next instruction onto the stack,
// and jumps to address.
func (c *CPU) call(address uint16) {
	c.pushStack(c.pc)
	c.pc = address
}

// ret pops the return address from the stack into PC.
func (c *CPU) ret() {
	c.pc = c.popStack()
}

// jumpRelative adds the signed offset to PC.
func (c *CPU) jumpRelative(offset uint8) {
	c.pc += uint16(int16(int8(offset)))
}

func defineJumps(s *instructionSet) {
	s.Define(0x18, "JR r8", func(c *CPU) {
		c.jumpRelative(c.readOperand())
	})
	s.Define(0xC3, "JP a16", func(c *CPU) {
		c.pc = c.readOperand16()
	})
	s.Define(0xE9, "JP HL", func(c *CPU) {
		c.pc = c.HL.Uint16()
	})
	s.Define(0xCD, "CALL a16", func(c *CPU) {
		c.call(c.readOperand16())
	})
	s.Define(0xC9, "RET", func(c *CPU) {
		c.ret()
	})
	s.Define(0xD9, "RETI", func(c *CPU) {
		c.ret()
		// unlike EI, RETI enables interrupts immediately
		c.ime = true
	})

	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		cond := conditionNames[cc]
		s.Define(0x20|cc<<3, "JR "+cond+", r8", func(c *CPU) {
			offset := c.readOperand()
			if c.condition(cc) {
				c.jumpRelative(offset)
				c.cycles.Add(jrTakenCycles)
			}
		})
		s.Define(0xC2|cc<<3, "JP "+cond+", a16", func(c *CPU) {
			address := c.readOperand16()
			if c.condition(cc) {
				c.pc = address
				c.cycles.Add(jpTakenCycles)
			}
		})
		s.Define(0xC4|cc<<3, "CALL "+cond+", a16", func(c *CPU) {
			address := c.readOperand16()
			if c.condition(cc) {
				c.call(address)
				c.cycles.Add(callTakenCycles)
			}
		})
		s.Define(0xC0|cc<<3, "RET "+cond, func(c *CPU) {
			if c.condition(cc) {
				c.ret()
				c.cycles.Add(retTakenCycles)
			}
		})
	}

	generateRSTInstructions(s)
}

// generateRSTInstructions defines RST 00H to RST 38H.
func generateRSTInstructions(s *instructionSet) {
	for i := uint8(0); i < 8; i++ {
		address := uint16(i) * 8
		s.Define(0xC7|i<<3, fmt.Sprintf("RST %02XH", address), func(c *CPU) {
			c.call(address)
		})
	}
}
