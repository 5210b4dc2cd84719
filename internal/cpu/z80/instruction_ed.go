package z80

import (
	"fmt"

	"github.com/thelolagemann/chipcore/pkg/bits"
)

// interruptModes maps bits 3-5 of IM n to the mode it selects.
var interruptModes = [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}

// blockOp is one of the four block transfer families. It performs a
// single iteration in direction dir (1 or 0xFFFF) and reports
// whether a repeating form should run again.
type blockOp struct {
	names [4]string // increment, decrement, repeat increment, repeat decrement
	fn    func(c *CPU, dir uint16) bool
}

var blockOps = [4]blockOp{
	{[4]string{"LDI", "LDD", "LDIR", "LDDR"}, (*CPU).ldBlock},
	{[4]string{"CPI", "CPD", "CPIR", "CPDR"}, (*CPU).cpBlock},
	{[4]string{"INI", "IND", "INIR", "INDR"}, (*CPU).inBlock},
	{[4]string{"OUTI", "OUTD", "OTIR", "OTDR"}, (*CPU).outBlock},
}

// defineED defines the ED-prefixed instructions. Opcodes outside
// the documented ranges execute as 8 T-state NOPs.
func defineED(s *instructionSet) {
	for op := 0; op < 256; op++ {
		s.Define(uint8(op), "NOP (ED)", func(c *CPU) {})
	}

	for y := uint8(0); y < 8; y++ {
		y := y
		p, q := y>>1, y&1
		op := 0x40 | y<<3

		if y == 6 {
			s.Define(op, "IN F, (C)", func(c *CPU) {
				c.F = c.F&FlagCarry | sz53pTable[c.portIn()]
			})
			s.Define(op|1, "OUT (C), 0", func(c *CPU) {
				c.portOut(0)
			})
		} else {
			s.Define(op, "IN "+reg8Name(y, useHL)+", (C)", func(c *CPU) {
				v := c.portIn()
				*c.reg8(y, useHL) = v
				c.F = c.F&FlagCarry | sz53pTable[v]
			})
			s.Define(op|1, "OUT (C), "+reg8Name(y, useHL), func(c *CPU) {
				c.portOut(*c.reg8(y, useHL))
			})
		}

		if q == 0 {
			s.Define(op|2, "SBC HL, "+rpName(p, useHL), func(c *CPU) {
				a := c.HL.Uint16()
				r, f := sbc16(a, c.rp(p, useHL), c.F)
				c.wz = a + 1
				c.HL.SetUint16(r)
				c.F = f
			})
			s.Define(op|3, "LD (nn), "+rpName(p, useHL), func(c *CPU) {
				addr := c.fetch16()
				c.write16(addr, c.rp(p, useHL))
				c.wz = addr + 1
			})
		} else {
			s.Define(op|2, "ADC HL, "+rpName(p, useHL), func(c *CPU) {
				a := c.HL.Uint16()
				r, f := adc16(a, c.rp(p, useHL), c.F)
				c.wz = a + 1
				c.HL.SetUint16(r)
				c.F = f
			})
			s.Define(op|3, "LD "+rpName(p, useHL)+", (nn)", func(c *CPU) {
				addr := c.fetch16()
				c.setRP(p, useHL, c.read16(addr))
				c.wz = addr + 1
			})
		}

		s.Define(op|4, "NEG", func(c *CPU) {
			c.A, c.F = sub8(0, c.A, 0)
		})
		retName := "RETN"
		if y == 1 {
			retName = "RETI"
		}
		s.Define(op|5, retName, func(c *CPU) {
			c.iff1 = c.iff2
			c.ret()
		})
		mode := interruptModes[y]
		s.Define(op|6, fmt.Sprintf("IM %d", mode), func(c *CPU) {
			c.im = mode
		})
	}

	s.Define(0x47, "LD I, A", func(c *CPU) { c.I = c.A })
	s.Define(0x4F, "LD R, A", func(c *CPU) { c.R = c.A })
	s.Define(0x57, "LD A, I", func(c *CPU) { c.ldAIR(c.I) })
	s.Define(0x5F, "LD A, R", func(c *CPU) { c.ldAIR(c.R) })
	s.Define(0x67, "RRD", func(c *CPU) {
		addr := c.HL.Uint16()
		v := c.read(addr)
		c.write(addr, c.A<<4|v>>4)
		c.A = c.A&0xF0 | v&0x0F
		c.F = c.F&FlagCarry | sz53pTable[c.A]
		c.wz = addr + 1
	})
	s.Define(0x6F, "RLD", func(c *CPU) {
		addr := c.HL.Uint16()
		v := c.read(addr)
		c.write(addr, v<<4|c.A&0x0F)
		c.A = c.A&0xF0 | v>>4
		c.F = c.F&FlagCarry | sz53pTable[c.A]
		c.wz = addr + 1
	})

	for i, block := range blockOps {
		i, block := uint8(i), block
		for y := uint8(4); y < 8; y++ {
			dir := uint16(1)
			if y&1 != 0 {
				dir = 0xFFFF
			}
			repeats := y >= 6
			s.Define(0x80|y<<3|i, block.names[y-4], func(c *CPU) {
				if block.fn(c, dir) && repeats {
					c.repeat()
				}
			})
		}
	}
}

// portIn reads the port addressed by C, as IN r, (C).
func (c *CPU) portIn() uint8 {
	c.wz = c.BC.Uint16() + 1
	return c.in(c.C)
}

// portOut writes the port addressed by C, as OUT (C), r.
func (c *CPU) portOut(v uint8) {
	c.wz = c.BC.Uint16() + 1
	c.out(c.C, v)
}

// ldAIR loads I or R into A. P/V reflects IFF2.
func (c *CPU) ldAIR(v uint8) {
	c.A = v
	c.F = c.F&FlagCarry | sz53Table[v]
	if c.iff2 {
		c.F |= FlagParity
	}
}

// repeat rewinds PC to the start of a block instruction so that it
// executes again on the next Step.
func (c *CPU) repeat() {
	c.pc -= 2
	c.wz = c.pc + 1
	c.cycles.Add(repeatCycles)
}

// ldBlock copies (HL) to (DE) and decrements BC. X and Y are taken
// from bits 3 and 1 of the copied byte plus A.
func (c *CPU) ldBlock(dir uint16) bool {
	v := c.read(c.HL.Uint16())
	c.write(c.DE.Uint16(), v)
	c.HL.SetUint16(c.HL.Uint16() + dir)
	c.DE.SetUint16(c.DE.Uint16() + dir)
	bc := c.BC.Uint16() - 1
	c.BC.SetUint16(bc)

	n := v + c.A
	c.F = c.F&(FlagSign|FlagZero|FlagCarry) | n&FlagX | (n<<4)&FlagY
	if bc != 0 {
		c.F |= FlagParity
	}
	return bc != 0
}

// cpBlock compares A with (HL) and decrements BC. The repeating
// forms stop on a match.
func (c *CPU) cpBlock(dir uint16) bool {
	v := c.read(c.HL.Uint16())
	r := c.A - v
	half := (c.A ^ v ^ r) & FlagHalfCarry
	c.HL.SetUint16(c.HL.Uint16() + dir)
	c.wz += dir
	bc := c.BC.Uint16() - 1
	c.BC.SetUint16(bc)

	n := r
	if half != 0 {
		n--
	}
	c.F = c.F&FlagCarry | FlagSubtract | half | sz53Table[r]&(FlagSign|FlagZero) | n&FlagX | (n<<4)&FlagY
	if bc != 0 {
		c.F |= FlagParity
	}
	return bc != 0 && r != 0
}

// inBlock reads the port addressed by C into (HL) and decrements B.
func (c *CPU) inBlock(dir uint16) bool {
	c.wz = c.BC.Uint16() + dir
	v := c.in(c.C)
	c.B--
	c.write(c.HL.Uint16(), v)
	c.HL.SetUint16(c.HL.Uint16() + dir)

	c.blockIOFlags(v, int(v)+int(c.C+uint8(dir)))
	return c.B != 0
}

// outBlock writes (HL) to the port addressed by C, after B was
// decremented.
func (c *CPU) outBlock(dir uint16) bool {
	v := c.read(c.HL.Uint16())
	c.B--
	c.wz = c.BC.Uint16() + dir
	c.out(c.C, v)
	c.HL.SetUint16(c.HL.Uint16() + dir)

	c.blockIOFlags(v, int(v)+int(c.L))
	return c.B != 0
}

// blockIOFlags sets the flags of the block I/O instructions. S, Z,
// X and Y come from B, N from bit 7 of the transferred byte, H and C
// from the overflow of k, and P/V from the parity of (k & 7) ^ B.
func (c *CPU) blockIOFlags(v uint8, k int) {
	f := sz53Table[c.B]
	if v&0x80 != 0 {
		f |= FlagSubtract
	}
	if k > 0xFF {
		f |= FlagHalfCarry | FlagCarry
	}
	if bits.Parity(uint8(k&7) ^ c.B) {
		f |= FlagParity
	}
	c.F = f
}
