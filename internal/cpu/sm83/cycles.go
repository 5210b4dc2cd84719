package sm83

// Base cycle costs in T-states. Conditional instructions are listed
// with their not-taken cost. STOP, HALT and the illegal opcodes
// cost a single machine cycle; the CB prefix costs 0 here, as the
// CB table holds the total including the prefix fetch.
var baseCycles = [256]uint8{
	//  0   1   2   3   4   5   6   7   8   9   A   B   C   D   E   F
	4, 12, 8, 8, 4, 4, 8, 4, 20, 8, 8, 8, 4, 4, 8, 4, // 0x
	4, 12, 8, 8, 4, 4, 8, 4, 12, 8, 8, 8, 4, 4, 8, 4, // 1x
	8, 12, 8, 8, 4, 4, 8, 4, 8, 8, 8, 8, 4, 4, 8, 4, // 2x
	8, 12, 8, 8, 12, 12, 12, 4, 8, 8, 8, 8, 4, 4, 8, 4, // 3x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // 4x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // 5x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // 6x
	8, 8, 8, 8, 8, 8, 4, 8, 4, 4, 4, 4, 4, 4, 8, 4, // 7x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // 8x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // 9x
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // Ax
	4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4, // Bx
	8, 12, 12, 16, 12, 16, 8, 16, 8, 16, 12, 0, 12, 24, 8, 16, // Cx
	8, 12, 12, 4, 12, 16, 8, 16, 8, 16, 12, 4, 12, 4, 8, 16, // Dx
	12, 12, 8, 4, 4, 16, 8, 16, 16, 4, 16, 4, 4, 4, 8, 16, // Ex
	12, 12, 8, 4, 4, 16, 8, 16, 12, 8, 16, 4, 4, 4, 8, 16, // Fx
}

// cbCycles are the totals of the CB-prefixed instructions: 8 for
// registers, 16 for (HL), and 12 for BIT n, (HL), which does not
// write back.
var cbCycles = func() [256]uint8 {
	var cycles [256]uint8
	for op := range cycles {
		switch {
		case op&7 != 6:
			cycles[op] = 8
		case op >= 0x40 && op < 0x80:
			cycles[op] = 12
		default:
			cycles[op] = 16
		}
	}
	return cycles
}()

const (
	haltCycles      = 4  // idle cost of a halted, stopped or locked Step
	jrTakenCycles   = 4  // JR cc, when taken
	jpTakenCycles   = 4  // JP cc, when taken
	callTakenCycles = 12 // CALL cc, when taken
	retTakenCycles  = 12 // RET cc, when taken
	interruptCycles = 20 // interrupt dispatch
)
