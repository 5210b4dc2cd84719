package sm83

import (
	"github.com/thelolagemann/chipcore/internal/cpu"
)

// The opcode tables. They are built in init, as the CB prefix
// refers to the CB table.
var (
	// baseSet holds the first 256 instructions.
	baseSet *instructionSet
	// cbSet holds the CB-prefixed instructions.
	cbSet *instructionSet
)

// disallowedOpcodes are not decoded by the SM83. Executing one
// locks the CPU until it is reset.
var disallowedOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

var aluNames = [8]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}

func init() {
	baseSet = cpu.NewInstructionSet[*CPU](baseCycles)
	cbSet = cpu.NewInstructionSet[*CPU](cbCycles)

	defineControl(baseSet)
	defineLoads(baseSet)
	defineArithmetic(baseSet)
	defineJumps(baseSet)
	defineCB(cbSet)

	baseSet.Define(0xCB, "PREFIX CB", func(c *CPU) {
		op := c.readInstruction()
		c.dispatch(cbSet, op)
	})
	for _, opcode := range disallowedOpcodes {
		baseSet.Define(opcode, "disallowed", disallowedOpcode)
	}
}

func defineControl(s *instructionSet) {
	s.Define(0x00, "NOP", func(c *CPU) {})
	s.Define(0x10, "STOP", func(c *CPU) {
		// STOP is a 2-byte opcode, the second byte is ignored
		c.readOperand()
		if c.stopHook != nil && c.stopHook(c) {
			return
		}
		c.mode = ModeStop
	})
	s.Define(0x76, "HALT", func(c *CPU) {
		c.halt()
	})
	s.Define(0xF3, "DI", func(c *CPU) {
		c.ime = false
	})
	s.Define(0xFB, "EI", func(c *CPU) {
		c.mode = ModeEnableIME
	})

	s.Define(0x27, "DAA", func(c *CPU) {
		c.A, c.F = daa(c.A, c.F)
	})
	s.Define(0x2F, "CPL", func(c *CPU) {
		c.A = 0xFF ^ c.A
		c.F |= FlagSubtract | FlagHalfCarry
	})
	s.Define(0x37, "SCF", func(c *CPU) {
		c.F = flags(c.isFlagSet(FlagZero), false, false, true)
	})
	s.Define(0x3F, "CCF", func(c *CPU) {
		c.F = flags(c.isFlagSet(FlagZero), false, false, !c.isFlagSet(FlagCarry))
	})

	s.Define(0x07, "RLCA", func(c *CPU) { c.A, c.F = accumulatorRotate(rotateLeftCarry)(c.A, c.F) })
	s.Define(0x0F, "RRCA", func(c *CPU) { c.A, c.F = accumulatorRotate(rotateRightCarry)(c.A, c.F) })
	s.Define(0x17, "RLA", func(c *CPU) { c.A, c.F = accumulatorRotate(rotateLeftThroughCarry)(c.A, c.F) })
	s.Define(0x1F, "RRA", func(c *CPU) { c.A, c.F = accumulatorRotate(rotateRightThroughCarry)(c.A, c.F) })
}

// alu applies the accumulator operation encoded by fn to A and n.
func (c *CPU) alu(fn, n uint8) {
	switch fn {
	case 0:
		c.A, c.F = add(c.A, n, 0)
	case 1:
		c.A, c.F = add(c.A, n, (c.F&FlagCarry)>>4)
	case 2:
		c.A, c.F = sub(c.A, n, 0)
	case 3:
		c.A, c.F = sub(c.A, n, (c.F&FlagCarry)>>4)
	case 4:
		c.A, c.F = and(c.A, n)
	case 5:
		c.A, c.F = xor(c.A, n)
	case 6:
		c.A, c.F = or(c.A, n)
	case 7:
		c.F = compare(c.A, n)
	}
}

func defineArithmetic(s *instructionSet) {
	for r := uint8(0); r < 8; r++ {
		r := r
		s.Define(0x04|r<<3, "INC "+registerNames[r], func(c *CPU) {
			var v uint8
			v, c.F = increment(c.readIndex(r), c.F)
			c.writeIndex(r, v)
		})
		s.Define(0x05|r<<3, "DEC "+registerNames[r], func(c *CPU) {
			var v uint8
			v, c.F = decrement(c.readIndex(r), c.F)
			c.writeIndex(r, v)
		})
	}

	for p := uint8(0); p < 4; p++ {
		p := p
		s.Define(0x03|p<<4, "INC "+pairNames[p], func(c *CPU) {
			c.setPair(p, c.pair(p)+1)
		})
		s.Define(0x0B|p<<4, "DEC "+pairNames[p], func(c *CPU) {
			c.setPair(p, c.pair(p)-1)
		})
		s.Define(0x09|p<<4, "ADD HL, "+pairNames[p], func(c *CPU) {
			var hl uint16
			hl, c.F = addUint16(c.HL.Uint16(), c.pair(p), c.F)
			c.HL.SetUint16(hl)
		})
	}

	for op := 0x80; op < 0xC0; op++ {
		fn, src := uint8(op>>3)&7, uint8(op)&7
		s.Define(uint8(op), aluNames[fn]+registerNames[src], func(c *CPU) {
			c.alu(fn, c.readIndex(src))
		})
	}
	for fn := uint8(0); fn < 8; fn++ {
		fn := fn
		s.Define(0xC6|fn<<3, aluNames[fn]+"d8", func(c *CPU) {
			c.alu(fn, c.readOperand())
		})
	}

	s.Define(0xE8, "ADD SP, r8", func(c *CPU) {
		c.sp, c.F = addSPSigned(c.sp, c.readOperand())
	})
}
