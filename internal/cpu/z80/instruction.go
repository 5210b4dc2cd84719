package z80

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/types"
)

// indexMode selects which register pair stands in for HL: the
// unprefixed tables use HL, the DD and FD tables use IX and IY.
type indexMode uint8

const (
	useHL indexMode = iota
	useIX
	useIY
)

var (
	pairNames = [3]string{"HL", "IX", "IY"}
	memNames  = [3]string{"(HL)", "(IX+d)", "(IY+d)"}
	aluNames  = [8]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}
)

// The opcode tables. They are built in init, as their operations
// refer to each other through the prefix opcodes.
var (
	baseSet    *instructionSet
	cbSet      *instructionSet
	edSet      *instructionSet
	ddSet      *instructionSet
	fdSet      *instructionSet
	indexCBSet *instructionSet
)

func init() {
	baseSet = cpu.NewInstructionSet[*CPU](baseCycles)
	ddSet = cpu.NewInstructionSet[*CPU](indexCycles)
	fdSet = cpu.NewInstructionSet[*CPU](indexCycles)
	cbSet = cpu.NewInstructionSet[*CPU](cbCycles)
	edSet = cpu.NewInstructionSet[*CPU](edCycles)
	indexCBSet = cpu.NewInstructionSet[*CPU](indexCBCycles)

	defineMain(baseSet, useHL)
	defineMain(ddSet, useIX)
	defineMain(fdSet, useIY)
	defineCB(cbSet)
	defineED(edSet)
	defineIndexCB(indexCBSet)
}

// indexPair returns the register pair used as HL under mode m.
func (c *CPU) indexPair(m indexMode) *types.RegisterPair {
	switch m {
	case useIX:
		return c.IX
	case useIY:
		return c.IY
	}
	return c.HL
}

// reg8 returns the register encoded by r (0-7 excluding 6, which
// is the memory operand). Under an index mode H and L select the
// halves of the index register.
func (c *CPU) reg8(r uint8, m indexMode) *types.Register {
	switch r {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		switch m {
		case useIX:
			return &c.IXH
		case useIY:
			return &c.IYH
		}
		return &c.H
	case 5:
		switch m {
		case useIX:
			return &c.IXL
		case useIY:
			return &c.IYL
		}
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("z80: invalid register index: %d", r))
}

func reg8Name(r uint8, m indexMode) string {
	switch r {
	case 4:
		return [3]string{"H", "IXH", "IYH"}[m]
	case 5:
		return [3]string{"L", "IXL", "IYL"}[m]
	case 6:
		return memNames[m]
	}
	return [8]string{"B", "C", "D", "E", "", "", "", "A"}[r]
}

// memAddr returns the address of the memory operand: HL, or the
// index register plus a signed displacement read from the
// instruction stream.
func (c *CPU) memAddr(m indexMode) uint16 {
	if m == useHL {
		return c.HL.Uint16()
	}
	d := int8(c.fetch())
	addr := c.indexPair(m).Uint16() + uint16(int16(d))
	c.wz = addr
	return addr
}

// rp returns the pair encoded by p in the BC, DE, HL, SP group.
func (c *CPU) rp(p uint8, m indexMode) uint16 {
	switch p {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.indexPair(m).Uint16()
	}
	return c.sp
}

func (c *CPU) setRP(p uint8, m indexMode, v uint16) {
	switch p {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.indexPair(m).SetUint16(v)
	default:
		c.sp = v
	}
}

func rpName(p uint8, m indexMode) string {
	return [4]string{"BC", "DE", pairNames[m], "SP"}[p]
}

// rp2 returns the pair encoded by p in the BC, DE, HL, AF group
// used by PUSH and POP.
func (c *CPU) rp2(p uint8, m indexMode) uint16 {
	if p == 3 {
		return c.AF.Uint16()
	}
	return c.rp(p, m)
}

func (c *CPU) setRP2(p uint8, m indexMode, v uint16) {
	if p == 3 {
		c.AF.SetUint16(v)
		return
	}
	c.setRP(p, m, v)
}

func rp2Name(p uint8, m indexMode) string {
	return [4]string{"BC", "DE", pairNames[m], "AF"}[p]
}

// alu applies the accumulator operation encoded by fn to A and v.
func (c *CPU) alu(fn, v uint8) {
	switch fn {
	case 0:
		c.A, c.F = add8(c.A, v, 0)
	case 1:
		c.A, c.F = add8(c.A, v, c.F&FlagCarry)
	case 2:
		c.A, c.F = sub8(c.A, v, 0)
	case 3:
		c.A, c.F = sub8(c.A, v, c.F&FlagCarry)
	case 4:
		c.A, c.F = and8(c.A, v)
	case 5:
		c.A, c.F = xor8(c.A, v)
	case 6:
		c.A, c.F = or8(c.A, v)
	case 7:
		c.F = cp8(c.A, v)
	}
}

// jr reads a relative displacement and jumps if cond holds,
// charging extra cycles when taken.
func (c *CPU) jr(cond bool, extra int) {
	e := int8(c.fetch())
	if cond {
		c.pc += uint16(int16(e))
		c.wz = c.pc
		c.cycles.Add(extra)
	}
}

func (c *CPU) call(address uint16) {
	c.push(c.pc)
	c.pc = address
	c.wz = address
}

func (c *CPU) ret() {
	c.pc = c.pop()
	c.wz = c.pc
}

// defineMain defines the 256 unprefixed opcodes in s, with HL
// replaced according to m. Under IX and IY the table is the DD or FD
// prefixed table; opcodes that do not involve HL behave as their
// unprefixed form.
func defineMain(s *instructionSet, m indexMode) {
	hl := pairNames[m]
	mem := memNames[m]

	s.Define(0x00, "NOP", func(c *CPU) {})
	s.Define(0x08, "EX AF, AF'", func(c *CPU) {
		c.A, c.shadow.A = c.shadow.A, c.A
		c.F, c.shadow.F = c.shadow.F, c.F
	})
	s.Define(0x10, "DJNZ e", func(c *CPU) {
		c.B--
		c.jr(c.B != 0, jrTakenCycles)
	})
	s.Define(0x18, "JR e", func(c *CPU) {
		c.jr(true, 0)
	})
	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		s.Define(0x20+cc<<3, "JR "+conditionNames[cc]+", e", func(c *CPU) {
			c.jr(c.condition(cc), jrTakenCycles)
		})
	}

	// 16-bit load, increment, decrement and add
	for p := uint8(0); p < 4; p++ {
		p := p
		s.Define(0x01|p<<4, "LD "+rpName(p, m)+", nn", func(c *CPU) {
			c.setRP(p, m, c.fetch16())
		})
		s.Define(0x03|p<<4, "INC "+rpName(p, m), func(c *CPU) {
			c.setRP(p, m, c.rp(p, m)+1)
		})
		s.Define(0x0B|p<<4, "DEC "+rpName(p, m), func(c *CPU) {
			c.setRP(p, m, c.rp(p, m)-1)
		})
		s.Define(0x09|p<<4, "ADD "+hl+", "+rpName(p, m), func(c *CPU) {
			pair := c.indexPair(m)
			a := pair.Uint16()
			r, f := add16(a, c.rp(p, m), c.F)
			c.wz = a + 1
			pair.SetUint16(r)
			c.F = f
		})
	}

	// indirect accumulator loads
	s.Define(0x02, "LD (BC), A", func(c *CPU) {
		addr := c.BC.Uint16()
		c.write(addr, c.A)
		c.wz = uint16(c.A)<<8 | (addr+1)&0xFF
	})
	s.Define(0x12, "LD (DE), A", func(c *CPU) {
		addr := c.DE.Uint16()
		c.write(addr, c.A)
		c.wz = uint16(c.A)<<8 | (addr+1)&0xFF
	})
	s.Define(0x0A, "LD A, (BC)", func(c *CPU) {
		addr := c.BC.Uint16()
		c.A = c.read(addr)
		c.wz = addr + 1
	})
	s.Define(0x1A, "LD A, (DE)", func(c *CPU) {
		addr := c.DE.Uint16()
		c.A = c.read(addr)
		c.wz = addr + 1
	})
	s.Define(0x22, "LD (nn), "+hl, func(c *CPU) {
		addr := c.fetch16()
		c.write16(addr, c.indexPair(m).Uint16())
		c.wz = addr + 1
	})
	s.Define(0x2A, "LD "+hl+", (nn)", func(c *CPU) {
		addr := c.fetch16()
		c.indexPair(m).SetUint16(c.read16(addr))
		c.wz = addr + 1
	})
	s.Define(0x32, "LD (nn), A", func(c *CPU) {
		addr := c.fetch16()
		c.write(addr, c.A)
		c.wz = uint16(c.A)<<8 | (addr+1)&0xFF
	})
	s.Define(0x3A, "LD A, (nn)", func(c *CPU) {
		addr := c.fetch16()
		c.A = c.read(addr)
		c.wz = addr + 1
	})

	// 8-bit increment, decrement and immediate load
	for r := uint8(0); r < 8; r++ {
		r := r
		if r == 6 {
			continue
		}
		name := reg8Name(r, m)
		s.Define(0x04|r<<3, "INC "+name, func(c *CPU) {
			reg := c.reg8(r, m)
			*reg, c.F = inc8(*reg, c.F)
		})
		s.Define(0x05|r<<3, "DEC "+name, func(c *CPU) {
			reg := c.reg8(r, m)
			*reg, c.F = dec8(*reg, c.F)
		})
		s.Define(0x06|r<<3, "LD "+name+", n", func(c *CPU) {
			*c.reg8(r, m) = c.fetch()
		})
	}
	s.Define(0x34, "INC "+mem, func(c *CPU) {
		addr := c.memAddr(m)
		v, f := inc8(c.read(addr), c.F)
		c.write(addr, v)
		c.F = f
	})
	s.Define(0x35, "DEC "+mem, func(c *CPU) {
		addr := c.memAddr(m)
		v, f := dec8(c.read(addr), c.F)
		c.write(addr, v)
		c.F = f
	})
	s.Define(0x36, "LD "+mem+", n", func(c *CPU) {
		addr := c.memAddr(m)
		c.write(addr, c.fetch())
	})

	// accumulator and flag operations
	s.Define(0x07, "RLCA", func(c *CPU) { c.A, c.F = rlca(c.A, c.F) })
	s.Define(0x0F, "RRCA", func(c *CPU) { c.A, c.F = rrca(c.A, c.F) })
	s.Define(0x17, "RLA", func(c *CPU) { c.A, c.F = rla(c.A, c.F) })
	s.Define(0x1F, "RRA", func(c *CPU) { c.A, c.F = rra(c.A, c.F) })
	s.Define(0x27, "DAA", func(c *CPU) { c.A, c.F = daa(c.A, c.F) })
	s.Define(0x2F, "CPL", func(c *CPU) { c.A, c.F = cpl(c.A, c.F) })
	s.Define(0x37, "SCF", func(c *CPU) { c.F = scf(c.A, c.F) })
	s.Define(0x3F, "CCF", func(c *CPU) { c.F = ccf(c.A, c.F) })

	// 8-bit register loads. The memory forms always move to or from
	// H and L, even under an index prefix.
	for op := 0x40; op < 0x80; op++ {
		dst, src := uint8(op>>3)&7, uint8(op)&7
		switch {
		case op == 0x76:
			s.Define(0x76, "HALT", func(c *CPU) { c.halted = true })
		case dst == 6:
			s.Define(uint8(op), "LD "+mem+", "+reg8Name(src, useHL), func(c *CPU) {
				addr := c.memAddr(m)
				c.write(addr, *c.reg8(src, useHL))
			})
		case src == 6:
			s.Define(uint8(op), "LD "+reg8Name(dst, useHL)+", "+mem, func(c *CPU) {
				addr := c.memAddr(m)
				*c.reg8(dst, useHL) = c.read(addr)
			})
		default:
			s.Define(uint8(op), "LD "+reg8Name(dst, m)+", "+reg8Name(src, m), func(c *CPU) {
				*c.reg8(dst, m) = *c.reg8(src, m)
			})
		}
	}

	// 8-bit arithmetic and logic on the accumulator
	for op := 0x80; op < 0xC0; op++ {
		fn, src := uint8(op>>3)&7, uint8(op)&7
		if src == 6 {
			s.Define(uint8(op), aluNames[fn]+mem, func(c *CPU) {
				c.alu(fn, c.read(c.memAddr(m)))
			})
			continue
		}
		s.Define(uint8(op), aluNames[fn]+reg8Name(src, m), func(c *CPU) {
			c.alu(fn, *c.reg8(src, m))
		})
	}

	// conditional flow, restarts and immediate arithmetic
	for y := uint8(0); y < 8; y++ {
		y := y
		cond := conditionNames[y]
		s.Define(0xC0|y<<3, "RET "+cond, func(c *CPU) {
			if c.condition(y) {
				c.ret()
				c.cycles.Add(retTakenCycles)
			}
		})
		s.Define(0xC2|y<<3, "JP "+cond+", nn", func(c *CPU) {
			addr := c.fetch16()
			c.wz = addr
			if c.condition(y) {
				c.pc = addr
			}
		})
		s.Define(0xC4|y<<3, "CALL "+cond+", nn", func(c *CPU) {
			addr := c.fetch16()
			c.wz = addr
			if c.condition(y) {
				c.call(addr)
				c.cycles.Add(callTakenCycles)
			}
		})
		s.Define(0xC6|y<<3, aluNames[y]+"n", func(c *CPU) {
			c.alu(y, c.fetch())
		})
		s.Define(0xC7|y<<3, fmt.Sprintf("RST %02Xh", y<<3), func(c *CPU) {
			c.call(uint16(y) << 3)
		})
	}
	for p := uint8(0); p < 4; p++ {
		p := p
		s.Define(0xC1|p<<4, "POP "+rp2Name(p, m), func(c *CPU) {
			c.setRP2(p, m, c.pop())
		})
		s.Define(0xC5|p<<4, "PUSH "+rp2Name(p, m), func(c *CPU) {
			c.push(c.rp2(p, m))
		})
	}
	s.Define(0xC3, "JP nn", func(c *CPU) {
		c.pc = c.fetch16()
		c.wz = c.pc
	})
	s.Define(0xC9, "RET", func(c *CPU) { c.ret() })
	s.Define(0xCD, "CALL nn", func(c *CPU) { c.call(c.fetch16()) })

	s.Define(0xD3, "OUT (n), A", func(c *CPU) {
		port := c.fetch()
		c.out(port, c.A)
		c.wz = uint16(c.A)<<8 | uint16(port+1)
	})
	s.Define(0xDB, "IN A, (n)", func(c *CPU) {
		port := c.fetch()
		c.wz = (uint16(c.A)<<8 | uint16(port)) + 1
		c.A = c.in(port)
	})
	s.Define(0xD9, "EXX", func(c *CPU) {
		c.B, c.shadow.B = c.shadow.B, c.B
		c.C, c.shadow.C = c.shadow.C, c.C
		c.D, c.shadow.D = c.shadow.D, c.D
		c.E, c.shadow.E = c.shadow.E, c.E
		c.H, c.shadow.H = c.shadow.H, c.H
		c.L, c.shadow.L = c.shadow.L, c.L
	})
	s.Define(0xE3, "EX (SP), "+hl, func(c *CPU) {
		pair := c.indexPair(m)
		v := c.read16(c.sp)
		c.write16(c.sp, pair.Uint16())
		pair.SetUint16(v)
		c.wz = v
	})
	s.Define(0xE9, "JP ("+hl+")", func(c *CPU) {
		c.pc = c.indexPair(m).Uint16()
	})
	// EX DE, HL ignores index prefixes
	s.Define(0xEB, "EX DE, HL", func(c *CPU) {
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
	})
	s.Define(0xF9, "LD SP, "+hl, func(c *CPU) {
		c.sp = c.indexPair(m).Uint16()
	})
	s.Define(0xF3, "DI", func(c *CPU) {
		c.iff1, c.iff2 = false, false
		c.eiPending = false
	})
	s.Define(0xFB, "EI", func(c *CPU) {
		c.eiPending = true
	})

	if m == useHL {
		s.Define(0xCB, "prefix CB", func(c *CPU) { c.dispatch(cbSet, c.fetchOpcode()) })
		s.Define(0xDD, "prefix DD", func(c *CPU) { c.dispatch(ddSet, c.fetchOpcode()) })
		s.Define(0xED, "prefix ED", func(c *CPU) { c.dispatch(edSet, c.fetchOpcode()) })
		s.Define(0xFD, "prefix FD", func(c *CPU) { c.dispatch(fdSet, c.fetchOpcode()) })
		return
	}

	s.Define(0xCB, "prefix "+hl+" CB", func(c *CPU) { c.executeIndexCB(m) })
	for _, op := range []uint8{0xDD, 0xED, 0xFD} {
		s.Define(op, fmt.Sprintf("prefix %02X (ignored)", op), redundantPrefix)
	}
}

// redundantPrefix handles a prefix byte directly following a DD or
// FD prefix. The first prefix acts as a 4 T-state NOP, and the
// following byte is decoded afresh by the next Step.
func redundantPrefix(c *CPU) {
	c.pc--
	c.decR()
	c.prefixHeld = true
}
