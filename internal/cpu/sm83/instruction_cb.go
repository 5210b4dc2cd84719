package sm83

import "fmt"

// defineCB defines the CB-prefixed instructions: rotates, shifts
// and SWAP in 0x00-0x3F, then BIT, RES and SET. The operand is
// encoded in bits 0-2.
func defineCB(s *instructionSet) {
	generateRotateInstructions(s)
	generateBitInstructions(s)
}

func generateRotateInstructions(s *instructionSet) {
	for op := 0; op < 0x40; op++ {
		shift, r := shifts[op>>3], uint8(op)&7
		s.Define(uint8(op), shift.name+" "+registerNames[r], func(c *CPU) {
			var v uint8
			v, c.F = shift.fn(c.readIndex(r), c.F)
			c.writeIndex(r, v)
		})
	}
}

func generateBitInstructions(s *instructionSet) {
	for op := 0x40; op < 0x100; op++ {
		b, r := uint8(op>>3)&7, uint8(op)&7
		name := fmt.Sprintf(" %d, %s", b, registerNames[r])

		switch op >> 6 {
		case 1:
			s.Define(uint8(op), "BIT"+name, func(c *CPU) {
				c.F = testBit(b, c.readIndex(r), c.F)
			})
		case 2:
			s.Define(uint8(op), "RES"+name, func(c *CPU) {
				c.writeIndex(r, c.readIndex(r)&^(1<<b))
			})
		case 3:
			s.Define(uint8(op), "SET"+name, func(c *CPU) {
				c.writeIndex(r, c.readIndex(r)|1<<b)
			})
		}
	}
}
