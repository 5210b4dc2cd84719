package sm83

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/types"
)

// registerIndex returns a Register pointer for the given index.
// Index 6 encodes (HL), which is handled by the callers.
func (c *CPU) registerIndex(index uint8) *types.Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("sm83: invalid register index: %d", index))
}

var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// readIndex returns the operand encoded by index, reading (HL) from
// memory.
func (c *CPU) readIndex(index uint8) uint8 {
	if index == 6 {
		return c.read(c.HL.Uint16())
	}
	return *c.registerIndex(index)
}

// writeIndex stores value in the operand encoded by index.
func (c *CPU) writeIndex(index, value uint8) {
	if index == 6 {
		c.write(c.HL.Uint16(), value)
		return
	}
	*c.registerIndex(index) = value
}

// pair returns the register pair encoded by p in the BC, DE, HL, SP
// group.
func (c *CPU) pair(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	}
	return c.sp
}

func (c *CPU) setPair(p uint8, value uint16) {
	switch p {
	case 0:
		c.BC.SetUint16(value)
	case 1:
		c.DE.SetUint16(value)
	case 2:
		c.HL.SetUint16(value)
	default:
		c.sp = value
	}
}

var pairNames = [4]string{"BC", "DE", "HL", "SP"}

func defineLoads(s *instructionSet) {
	for p := uint8(0); p < 4; p++ {
		p := p
		s.Define(0x01|p<<4, "LD "+pairNames[p]+", d16", func(c *CPU) {
			c.setPair(p, c.readOperand16())
		})
	}

	// indirect accumulator loads, (HL+) and (HL-) adjust HL afterwards
	indirect := [4]struct {
		name    string
		address func(c *CPU) uint16
	}{
		{"(BC)", func(c *CPU) uint16 { return c.BC.Uint16() }},
		{"(DE)", func(c *CPU) uint16 { return c.DE.Uint16() }},
		{"(HL+)", func(c *CPU) uint16 {
			hl := c.HL.Uint16()
			c.HL.SetUint16(hl + 1)
			return hl
		}},
		{"(HL-)", func(c *CPU) uint16 {
			hl := c.HL.Uint16()
			c.HL.SetUint16(hl - 1)
			return hl
		}},
	}
	for i, ind := range indirect {
		ind := ind
		s.Define(0x02|uint8(i)<<4, "LD "+ind.name+", A", func(c *CPU) {
			c.write(ind.address(c), c.A)
		})
		s.Define(0x0A|uint8(i)<<4, "LD A, "+ind.name, func(c *CPU) {
			c.A = c.read(ind.address(c))
		})
	}

	for r := uint8(0); r < 8; r++ {
		r := r
		s.Define(0x06|r<<3, "LD "+registerNames[r]+", d8", func(c *CPU) {
			c.writeIndex(r, c.readOperand())
		})
	}

	s.Define(0x08, "LD (a16), SP", func(c *CPU) {
		address := c.readOperand16()
		c.write(address, uint8(c.sp))
		c.write(address+1, uint8(c.sp>>8))
	})
	s.Define(0xE0, "LDH (a8), A", func(c *CPU) {
		c.write(0xFF00|uint16(c.readOperand()), c.A)
	})
	s.Define(0xF0, "LDH A, (a8)", func(c *CPU) {
		c.A = c.read(0xFF00 | uint16(c.readOperand()))
	})
	s.Define(0xE2, "LD (C), A", func(c *CPU) {
		c.write(0xFF00|uint16(c.C), c.A)
	})
	s.Define(0xF2, "LD A, (C)", func(c *CPU) {
		c.A = c.read(0xFF00 | uint16(c.C))
	})
	s.Define(0xEA, "LD (a16), A", func(c *CPU) {
		c.write(c.readOperand16(), c.A)
	})
	s.Define(0xFA, "LD A, (a16)", func(c *CPU) {
		c.A = c.read(c.readOperand16())
	})
	s.Define(0xF8, "LD HL, SP+r8", func(c *CPU) {
		var hl uint16
		hl, c.F = addSPSigned(c.sp, c.readOperand())
		c.HL.SetUint16(hl)
	})
	s.Define(0xF9, "LD SP, HL", func(c *CPU) {
		c.sp = c.HL.Uint16()
	})

	// PUSH and POP use AF in place of SP. The low nibble of F
	// always reads as zero.
	for p := uint8(0); p < 4; p++ {
		p := p
		name := pairNames[p]
		if p == 3 {
			name = "AF"
		}
		s.Define(0xC1|p<<4, "POP "+name, func(c *CPU) {
			v := c.popStack()
			if p == 3 {
				c.AF.SetUint16(v & 0xFFF0)
				return
			}
			c.setPair(p, v)
		})
		s.Define(0xC5|p<<4, "PUSH "+name, func(c *CPU) {
			if p == 3 {
				c.pushStack(c.AF.Uint16())
				return
			}
			c.pushStack(c.pair(p))
		})
	}

	generateLoadRegisterToRegisterInstructions(s)
}

// generateLoadRegisterToRegisterInstructions defines LD r, r' for
// 0x40 to 0x7F, with HALT in place of LD (HL), (HL).
func generateLoadRegisterToRegisterInstructions(s *instructionSet) {
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		dst, src := uint8(op>>3)&7, uint8(op)&7
		s.Define(uint8(op), "LD "+registerNames[dst]+", "+registerNames[src], func(c *CPU) {
			c.writeIndex(dst, c.readIndex(src))
		})
	}
}
