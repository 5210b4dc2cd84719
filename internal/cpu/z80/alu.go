package z80

// The functions in this file are pure: they take their operands and
// the current flags, and return the result with the complete new F
// register. The undocumented X and Y flags are always computed.

// add8 adds b and carry to a.
//
//	Flags affected:
//	S - Set if result is negative.
//	Z - Set if result is zero.
//	H - Set if carry from bit 3.
//	P/V - Set if signed overflow.
//	N - Reset.
//	C - Set if carry from bit 7.
func add8(a, b, carry uint8) (uint8, uint8) {
	sum := uint16(a) + uint16(b) + uint16(carry)
	r := uint8(sum)
	f := sz53Table[r] | (a^b^r)&FlagHalfCarry
	if sum > 0xFF {
		f |= FlagCarry
	}
	if (a^b)&0x80 == 0 && (a^r)&0x80 != 0 {
		f |= FlagParity
	}
	return r, f
}

// sub8 subtracts b and carry from a.
//
//	Flags affected:
//	S - Set if result is negative.
//	Z - Set if result is zero.
//	H - Set if borrow from bit 4.
//	P/V - Set if signed overflow.
//	N - Set.
//	C - Set if borrow.
func sub8(a, b, carry uint8) (uint8, uint8) {
	diff := int(a) - int(b) - int(carry)
	r := uint8(diff)
	f := sz53Table[r] | FlagSubtract | (a^b^r)&FlagHalfCarry
	if diff < 0 {
		f |= FlagCarry
	}
	if (a^b)&0x80 != 0 && (a^r)&0x80 != 0 {
		f |= FlagParity
	}
	return r, f
}

// cp8 compares b with a. The flags are those of a - b, except X and
// Y, which are copied from the operand rather than the result.
func cp8(a, b uint8) uint8 {
	_, f := sub8(a, b, 0)
	return f&^flagsXY | b&flagsXY
}

// and8 returns a & b. H is set, P/V holds the parity.
func and8(a, b uint8) (uint8, uint8) {
	r := a & b
	return r, sz53pTable[r] | FlagHalfCarry
}

// xor8 returns a ^ b. P/V holds the parity.
func xor8(a, b uint8) (uint8, uint8) {
	r := a ^ b
	return r, sz53pTable[r]
}

// or8 returns a | b. P/V holds the parity.
func or8(a, b uint8) (uint8, uint8) {
	r := a | b
	return r, sz53pTable[r]
}

// inc8 increments v. C is preserved, P/V is set when v was 0x7F.
func inc8(v, f uint8) (uint8, uint8) {
	r := v + 1
	nf := f&FlagCarry | sz53Table[r]
	if v&0x0F == 0x0F {
		nf |= FlagHalfCarry
	}
	if v == 0x7F {
		nf |= FlagParity
	}
	return r, nf
}

// dec8 decrements v. C is preserved, P/V is set when v was 0x80.
func dec8(v, f uint8) (uint8, uint8) {
	r := v - 1
	nf := f&FlagCarry | FlagSubtract | sz53Table[r]
	if v&0x0F == 0 {
		nf |= FlagHalfCarry
	}
	if v == 0x80 {
		nf |= FlagParity
	}
	return r, nf
}

// add16 adds b to a, as ADD HL, rr. S, Z and P/V are preserved,
// H is the carry from bit 11, X and Y come from the high byte.
func add16(a, b uint16, f uint8) (uint16, uint8) {
	sum := uint32(a) + uint32(b)
	r := uint16(sum)
	nf := f&(FlagSign|FlagZero|FlagParity) | uint8(r>>8)&flagsXY | uint8((a^b^r)>>8)&FlagHalfCarry
	if sum > 0xFFFF {
		nf |= FlagCarry
	}
	return r, nf
}

// adc16 adds b and the carry flag to a, as ADC HL, rr.
func adc16(a, b uint16, f uint8) (uint16, uint8) {
	sum := uint32(a) + uint32(b) + uint32(f&FlagCarry)
	r := uint16(sum)
	nf := uint8(r>>8)&(FlagSign|flagsXY) | uint8((a^b^r)>>8)&FlagHalfCarry
	if r == 0 {
		nf |= FlagZero
	}
	if (a^b)&0x8000 == 0 && (a^r)&0x8000 != 0 {
		nf |= FlagParity
	}
	if sum > 0xFFFF {
		nf |= FlagCarry
	}
	return r, nf
}

// sbc16 subtracts b and the carry flag from a, as SBC HL, rr.
func sbc16(a, b uint16, f uint8) (uint16, uint8) {
	diff := int32(a) - int32(b) - int32(f&FlagCarry)
	r := uint16(diff)
	nf := FlagSubtract | uint8(r>>8)&(FlagSign|flagsXY) | uint8((a^b^r)>>8)&FlagHalfCarry
	if r == 0 {
		nf |= FlagZero
	}
	if (a^b)&0x8000 != 0 && (a^r)&0x8000 != 0 {
		nf |= FlagParity
	}
	if diff < 0 {
		nf |= FlagCarry
	}
	return r, nf
}

// daa adjusts a for BCD after an addition or subtraction, as told
// by N. The correction depends on C and H as they were before the
// adjustment: the add path corrects upwards and sets H from the low
// nibble, the subtract path corrects downwards and keeps H only for
// a low nibble below 6.
//
//	Flags affected:
//	S, Z, X, Y - From the result.
//	H - See above.
//	P/V - Parity of the result.
//	N - Preserved.
//	C - Set if the high nibble was corrected.
func daa(a, f uint8) (uint8, uint8) {
	var correction uint8
	carry := f & FlagCarry
	if carry != 0 || a > 0x99 {
		correction = 0x60
		carry = FlagCarry
	}
	if f&FlagHalfCarry != 0 || a&0x0F > 0x09 {
		correction |= 0x06
	}

	var r, half uint8
	if f&FlagSubtract != 0 {
		r = a - correction
		if f&FlagHalfCarry != 0 && a&0x0F < 0x06 {
			half = FlagHalfCarry
		}
	} else {
		r = a + correction
		if a&0x0F > 0x09 {
			half = FlagHalfCarry
		}
	}
	return r, sz53pTable[r] | f&FlagSubtract | half | carry
}

// cpl complements a. H and N are set.
func cpl(a, f uint8) (uint8, uint8) {
	r := ^a
	return r, f&(FlagSign|FlagZero|FlagParity|FlagCarry) | FlagHalfCarry | FlagSubtract | r&flagsXY
}

// scf sets the carry flag.
func scf(a, f uint8) uint8 {
	return f&(FlagSign|FlagZero|FlagParity) | FlagCarry | a&flagsXY
}

// ccf complements the carry flag, moving the old carry into H.
func ccf(a, f uint8) uint8 {
	carry := f & FlagCarry
	return f&(FlagSign|FlagZero|FlagParity) | carry<<4 | (carry ^ FlagCarry) | a&flagsXY
}

// The accumulator rotates only touch H, N, C and the X and Y bits.

func rlca(a, f uint8) (uint8, uint8) {
	carry := a >> 7
	r := a<<1 | carry
	return r, f&(FlagSign|FlagZero|FlagParity) | r&flagsXY | carry
}

func rrca(a, f uint8) (uint8, uint8) {
	carry := a & 1
	r := a>>1 | carry<<7
	return r, f&(FlagSign|FlagZero|FlagParity) | r&flagsXY | carry
}

func rla(a, f uint8) (uint8, uint8) {
	carry := a >> 7
	r := a<<1 | f&FlagCarry
	return r, f&(FlagSign|FlagZero|FlagParity) | r&flagsXY | carry
}

func rra(a, f uint8) (uint8, uint8) {
	carry := a & 1
	r := a>>1 | (f&FlagCarry)<<7
	return r, f&(FlagSign|FlagZero|FlagParity) | r&flagsXY | carry
}

// shiftFunc is a CB-prefixed rotate or shift. S, Z, X, Y and P/V
// come from the result, H and N are reset.
type shiftFunc func(v, f uint8) (uint8, uint8)

func rlc(v, _ uint8) (uint8, uint8) {
	r := v<<1 | v>>7
	return r, sz53pTable[r] | v>>7
}

func rrc(v, _ uint8) (uint8, uint8) {
	r := v>>1 | v<<7
	return r, sz53pTable[r] | v&1
}

func rl(v, f uint8) (uint8, uint8) {
	r := v<<1 | f&FlagCarry
	return r, sz53pTable[r] | v>>7
}

func rr(v, f uint8) (uint8, uint8) {
	r := v>>1 | (f&FlagCarry)<<7
	return r, sz53pTable[r] | v&1
}

func sla(v, _ uint8) (uint8, uint8) {
	r := v << 1
	return r, sz53pTable[r] | v>>7
}

func sra(v, _ uint8) (uint8, uint8) {
	r := v>>1 | v&0x80
	return r, sz53pTable[r] | v&1
}

// sll is undocumented: it shifts left and sets bit 0.
func sll(v, _ uint8) (uint8, uint8) {
	r := v<<1 | 1
	return r, sz53pTable[r] | v>>7
}

func srl(v, _ uint8) (uint8, uint8) {
	r := v >> 1
	return r, sz53pTable[r] | v&1
}

var shifts = [8]struct {
	name string
	fn   shiftFunc
}{
	{"RLC", rlc}, {"RRC", rrc}, {"RL", rl}, {"RR", rr},
	{"SLA", sla}, {"SRA", sra}, {"SLL", sll}, {"SRL", srl},
}

// bit tests bit n of v. X and Y are taken from xy, which is the
// operand for register forms and the high byte of the internal
// address register for memory forms.
//
//	Flags affected:
//	Z, P/V - Set if the bit is clear.
//	S - Set if n is 7 and the bit is set.
//	H - Set.
//	N - Reset.
//	C - Preserved.
func bit(n, v, xy, f uint8) uint8 {
	r := v & (1 << n)
	nf := f&FlagCarry | FlagHalfCarry | xy&flagsXY
	if r == 0 {
		nf |= FlagZero | FlagParity
	}
	if r&0x80 != 0 {
		nf |= FlagSign
	}
	return nf
}
