package sm83

// The functions in this file are pure: they take their operands and
// the current flags, and return the result together with the new F
// register.

func flags(zero, subtract, halfCarry, carry bool) uint8 {
	var f uint8
	if zero {
		f |= FlagZero
	}
	if subtract {
		f |= FlagSubtract
	}
	if halfCarry {
		f |= FlagHalfCarry
	}
	if carry {
		f |= FlagCarry
	}
	return f
}

// add adds b and the carry to a.
//
//	ADD A, n / ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func add(a, b, carry uint8) (uint8, uint8) {
	sum := uint16(a) + uint16(b) + uint16(carry)
	r := uint8(sum)
	return r, flags(r == 0, false, (a^b^r)&0x10 != 0, sum > 0xFF)
}

// sub subtracts b and the carry from a.
//
//	SUB n / SBC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func sub(a, b, carry uint8) (uint8, uint8) {
	diff := int(a) - int(b) - int(carry)
	r := uint8(diff)
	return r, flags(r == 0, true, (a^b^r)&0x10 != 0, diff < 0)
}

// and performs a bitwise AND operation on a and b.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func and(a, b uint8) (uint8, uint8) {
	r := a & b
	return r, flags(r == 0, false, true, false)
}

// or performs a bitwise OR operation on a and b. Only Z is
// possibly set.
func or(a, b uint8) (uint8, uint8) {
	r := a | b
	return r, flags(r == 0, false, false, false)
}

// xor performs a bitwise XOR operation on a and b. Only Z is
// possibly set.
func xor(a, b uint8) (uint8, uint8) {
	r := a ^ b
	return r, flags(r == 0, false, false, false)
}

// compare returns the flags of a - b, discarding the result.
func compare(a, b uint8) uint8 {
	_, f := sub(a, b, 0)
	return f
}

// increment n by 1.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func increment(n, f uint8) (uint8, uint8) {
	r := n + 1
	return r, flags(r == 0, false, n&0xF == 0xF, f&FlagCarry != 0)
}

// decrement n by 1.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func decrement(n, f uint8) (uint8, uint8) {
	r := n - 1
	return r, flags(r == 0, true, n&0xF == 0, f&FlagCarry != 0)
}

// addUint16 adds b to a, as ADD HL, rr.
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func addUint16(a, b uint16, f uint8) (uint16, uint8) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), flags(f&FlagZero != 0, false, (a&0xFFF)+(b&0xFFF) > 0xFFF, sum > 0xFFFF)
}

// addSPSigned adds the signed offset e to sp, as ADD SP, e and
// LD HL, SP+e. H and C come from the unsigned addition of the low
// bytes.
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func addSPSigned(sp uint16, e uint8) (uint16, uint8) {
	r := sp + uint16(int16(int8(e)))
	return r, flags(false, false, (sp&0xF)+uint16(e&0xF) > 0xF, (sp&0xFF)+uint16(e) > 0xFF)
}

// daa adjusts a for BCD after an addition or subtraction, as told
// by N. The correction depends on C and H as they were before the
// adjustment.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set if the high nibble was corrected.
func daa(a, f uint8) (uint8, uint8) {
	carry := f&FlagCarry != 0
	if f&FlagSubtract == 0 {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if f&FlagHalfCarry != 0 || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if f&FlagHalfCarry != 0 {
			a -= 0x06
		}
	}
	return a, flags(a == 0, f&FlagSubtract != 0, false, carry)
}

// Rotates and shifts of the CB table. They set Z from the result,
// reset N and H, and set C from the bit shifted out.

type shiftFunc func(n, f uint8) (uint8, uint8)

func rotateLeftCarry(n, _ uint8) (uint8, uint8) {
	r := n<<1 | n>>7
	return r, flags(r == 0, false, false, n&0x80 != 0)
}

func rotateRightCarry(n, _ uint8) (uint8, uint8) {
	r := n>>1 | n<<7
	return r, flags(r == 0, false, false, n&1 != 0)
}

func rotateLeftThroughCarry(n, f uint8) (uint8, uint8) {
	r := n << 1
	if f&FlagCarry != 0 {
		r |= 1
	}
	return r, flags(r == 0, false, false, n&0x80 != 0)
}

func rotateRightThroughCarry(n, f uint8) (uint8, uint8) {
	r := n >> 1
	if f&FlagCarry != 0 {
		r |= 0x80
	}
	return r, flags(r == 0, false, false, n&1 != 0)
}

func shiftLeftArithmetic(n, _ uint8) (uint8, uint8) {
	r := n << 1
	return r, flags(r == 0, false, false, n&0x80 != 0)
}

func shiftRightArithmetic(n, _ uint8) (uint8, uint8) {
	r := n>>1 | n&0x80
	return r, flags(r == 0, false, false, n&1 != 0)
}

// swap exchanges the nibbles of n. C is reset.
func swap(n, _ uint8) (uint8, uint8) {
	r := n<<4 | n>>4
	return r, flags(r == 0, false, false, false)
}

func shiftRightLogical(n, _ uint8) (uint8, uint8) {
	r := n >> 1
	return r, flags(r == 0, false, false, n&1 != 0)
}

var shifts = [8]struct {
	name string
	fn   shiftFunc
}{
	{"RLC", rotateLeftCarry}, {"RRC", rotateRightCarry},
	{"RL", rotateLeftThroughCarry}, {"RR", rotateRightThroughCarry},
	{"SLA", shiftLeftArithmetic}, {"SRA", shiftRightArithmetic},
	{"SWAP", swap}, {"SRL", shiftRightLogical},
}

// accumulatorRotate wraps a CB rotate for RLCA, RRCA, RLA and RRA,
// which always reset Z.
func accumulatorRotate(fn shiftFunc) shiftFunc {
	return func(n, f uint8) (uint8, uint8) {
		r, nf := fn(n, f)
		return r, nf &^ FlagZero
	}
}

// testBit tests bit b of n.
//
//	BIT b, r
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func testBit(b, n, f uint8) uint8 {
	return flags(n&(1<<b) == 0, false, true, f&FlagCarry != 0)
}
