package z80

import "github.com/thelolagemann/chipcore/pkg/bits"

// Flag is a bit mask of the F register.
type Flag = uint8

const (
	FlagCarry     Flag = 1 << iota // C
	FlagSubtract                   // N
	FlagParity                     // P/V, parity or overflow depending on the instruction
	FlagX                          // undocumented, copy of bit 3
	FlagHalfCarry                  // H
	FlagY                          // undocumented, copy of bit 5
	FlagZero                       // Z
	FlagSign                       // S
)

const flagsXY = FlagX | FlagY

var (
	// sz53Table holds the S, Z, Y and X flags of every byte.
	sz53Table [256]uint8
	// sz53pTable additionally holds the parity flag.
	sz53pTable [256]uint8
)

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		f := v & (FlagSign | flagsXY)
		if v == 0 {
			f |= FlagZero
		}
		sz53Table[i] = f
		if bits.Parity(v) {
			f |= FlagParity
		}
		sz53pTable[i] = f
	}
}

// condition reports whether the condition encoded in an opcode's
// bits 3-5 holds: NZ, Z, NC, C, PO, PE, P, M.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return c.F&FlagZero == 0
	case 1:
		return c.F&FlagZero != 0
	case 2:
		return c.F&FlagCarry == 0
	case 3:
		return c.F&FlagCarry != 0
	case 4:
		return c.F&FlagParity == 0
	case 5:
		return c.F&FlagParity != 0
	case 6:
		return c.F&FlagSign == 0
	}
	return c.F&FlagSign != 0
}

var conditionNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
