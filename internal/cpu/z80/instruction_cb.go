package z80

import "fmt"

// defineCB defines the CB-prefixed rotate, shift and bit
// instructions. The register operand is encoded in bits 0-2, the
// operation in bits 3-7.
func defineCB(s *instructionSet) {
	for op := 0; op < 256; op++ {
		x, y, z := uint8(op>>6), uint8(op>>3)&7, uint8(op)&7
		name := reg8Name(z, useHL)

		switch x {
		case 0:
			shift := shifts[y]
			if z == 6 {
				s.Define(uint8(op), shift.name+" (HL)", func(c *CPU) {
					addr := c.HL.Uint16()
					v, f := shift.fn(c.read(addr), c.F)
					c.write(addr, v)
					c.F = f
				})
				continue
			}
			s.Define(uint8(op), shift.name+" "+name, func(c *CPU) {
				reg := c.reg8(z, useHL)
				*reg, c.F = shift.fn(*reg, c.F)
			})
		case 1:
			if z == 6 {
				s.Define(uint8(op), fmt.Sprintf("BIT %d, (HL)", y), func(c *CPU) {
					c.F = bit(y, c.read(c.HL.Uint16()), uint8(c.wz>>8), c.F)
				})
				continue
			}
			s.Define(uint8(op), fmt.Sprintf("BIT %d, %s", y, name), func(c *CPU) {
				v := *c.reg8(z, useHL)
				c.F = bit(y, v, v, c.F)
			})
		case 2:
			if z == 6 {
				s.Define(uint8(op), fmt.Sprintf("RES %d, (HL)", y), func(c *CPU) {
					addr := c.HL.Uint16()
					c.write(addr, c.read(addr)&^(1<<y))
				})
				continue
			}
			s.Define(uint8(op), fmt.Sprintf("RES %d, %s", y, name), func(c *CPU) {
				*c.reg8(z, useHL) &^= 1 << y
			})
		case 3:
			if z == 6 {
				s.Define(uint8(op), fmt.Sprintf("SET %d, (HL)", y), func(c *CPU) {
					addr := c.HL.Uint16()
					c.write(addr, c.read(addr)|1<<y)
				})
				continue
			}
			s.Define(uint8(op), fmt.Sprintf("SET %d, %s", y, name), func(c *CPU) {
				*c.reg8(z, useHL) |= 1 << y
			})
		}
	}
}

// defineIndexCB defines the DDCB- and FDCB-prefixed instructions.
// They all operate on the byte at indexAddr, computed before the
// opcode is read. Apart from BIT, the undocumented forms with a
// register operand also copy the result into that register.
func defineIndexCB(s *instructionSet) {
	for op := 0; op < 256; op++ {
		x, y, z := uint8(op>>6), uint8(op>>3)&7, uint8(op)&7

		var name string
		var fn func(c *CPU, v uint8) uint8
		switch x {
		case 0:
			shift := shifts[y]
			name = shift.name + " (INDEX+d)"
			fn = func(c *CPU, v uint8) uint8 {
				r, f := shift.fn(v, c.F)
				c.F = f
				return r
			}
		case 1:
			s.Define(uint8(op), fmt.Sprintf("BIT %d, (INDEX+d)", y), func(c *CPU) {
				c.F = bit(y, c.read(c.indexAddr), uint8(c.indexAddr>>8), c.F)
			})
			continue
		case 2:
			name = fmt.Sprintf("RES %d, (INDEX+d)", y)
			fn = func(_ *CPU, v uint8) uint8 { return v &^ (1 << y) }
		case 3:
			name = fmt.Sprintf("SET %d, (INDEX+d)", y)
			fn = func(_ *CPU, v uint8) uint8 { return v | 1<<y }
		}

		if z != 6 {
			name += ", " + reg8Name(z, useHL)
		}
		s.Define(uint8(op), name, func(c *CPU) {
			r := fn(c, c.read(c.indexAddr))
			c.write(c.indexAddr, r)
			if z != 6 {
				*c.reg8(z, useHL) = r
			}
		})
	}
}

// executeIndexCB decodes a DDCB or FDCB instruction. The
// displacement precedes the opcode, and neither fetch refreshes R.
func (c *CPU) executeIndexCB(m indexMode) {
	d := int8(c.fetch())
	c.indexAddr = c.indexPair(m).Uint16() + uint16(int16(d))
	c.wz = c.indexAddr
	op := c.fetch()
	if c.tracer != nil && c.trace.Length < uint8(len(c.trace.Opcodes)) {
		c.trace.Opcodes[c.trace.Length] = op
		c.trace.Length++
	}
	c.dispatch(indexCBSet, op)
}
