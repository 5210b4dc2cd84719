package types

// Register represents an 8-bit CPU register. Every core in this
// module stores its general purpose registers as Register values,
// and groups them into RegisterPair views where the architecture
// allows 16-bit access.
type Register = uint8

// RegisterPair represents a pair of Registers which can be used to
// hold a 16-bit value. The pair does not own any storage, it points
// at the two 8-bit halves, so writing either half is immediately
// visible through the pair and vice versa.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Registers represents the register block shared by the Z80 and
// SM83 cores: the accumulator, the flag register, and the three
// general purpose pairs.
type Registers struct {
	A Register
	F Register
	B Register
	C Register
	D Register
	E Register
	H Register
	L Register

	AF *RegisterPair
	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
}

// Init points the register pairs at their 8-bit halves. It must be
// called once on the final location of the Registers, as copying a
// Registers value copies the pointers and not the storage.
func (r *Registers) Init() {
	r.AF = &RegisterPair{&r.A, &r.F}
	r.BC = &RegisterPair{&r.B, &r.C}
	r.DE = &RegisterPair{&r.D, &r.E}
	r.HL = &RegisterPair{&r.H, &r.L}
}
