package z80

import "testing"

func TestALU(t *testing.T) {
	tests := []struct {
		name   string
		fn     func() (uint8, uint8)
		result uint8
		flags  uint8
	}{
		{"ADD overflow", func() (uint8, uint8) { return add8(0x7F, 0x01, 0) }, 0x80, FlagSign | FlagHalfCarry | FlagParity},
		{"ADD carry", func() (uint8, uint8) { return add8(0xFF, 0x01, 0) }, 0x00, FlagZero | FlagHalfCarry | FlagCarry},
		{"ADC", func() (uint8, uint8) { return add8(0x0E, 0x01, 1) }, 0x10, FlagHalfCarry},
		{"SUB borrow", func() (uint8, uint8) { return sub8(0x00, 0x01, 0) }, 0xFF, 0xBB},
		{"SUB overflow", func() (uint8, uint8) { return sub8(0x80, 0x01, 0) }, 0x7F, FlagY | FlagHalfCarry | FlagX | FlagParity | FlagSubtract},
		{"AND", func() (uint8, uint8) { return and8(0xF0, 0x0F) }, 0x00, FlagZero | FlagHalfCarry | FlagParity},
		{"XOR", func() (uint8, uint8) { return xor8(0x01, 0x02) }, 0x03, FlagParity},
		{"OR", func() (uint8, uint8) { return or8(0x01, 0x00) }, 0x01, 0},
		{"INC wrap", func() (uint8, uint8) { return inc8(0xFF, FlagCarry) }, 0x00, FlagZero | FlagHalfCarry | FlagCarry},
		{"INC overflow", func() (uint8, uint8) { return inc8(0x7F, 0) }, 0x80, FlagSign | FlagHalfCarry | FlagParity},
		{"DEC half borrow", func() (uint8, uint8) { return dec8(0x10, 0) }, 0x0F, FlagHalfCarry | FlagX | FlagSubtract},
		{"DAA low nibble", func() (uint8, uint8) { return daa(0x0A, 0) }, 0x10, FlagHalfCarry},
		{"DAA both nibbles", func() (uint8, uint8) { return daa(0x9A, 0) }, 0x00, FlagZero | FlagParity | FlagHalfCarry | FlagCarry},
		{"DAA after subtract", func() (uint8, uint8) { return daa(0x0F, FlagSubtract|FlagHalfCarry) }, 0x09, FlagParity | FlagX | FlagSubtract},
		{"CPL", func() (uint8, uint8) { return cpl(0x00, 0) }, 0xFF, FlagY | FlagHalfCarry | FlagX | FlagSubtract},
		{"RLCA", func() (uint8, uint8) { return rlca(0x81, 0) }, 0x03, FlagCarry},
		{"RRA", func() (uint8, uint8) { return rra(0x01, 0) }, 0x00, FlagCarry},
		{"RLC", func() (uint8, uint8) { return rlc(0x80, 0) }, 0x01, FlagCarry},
		{"SRA", func() (uint8, uint8) { return sra(0x81, 0) }, 0xC0, FlagSign | FlagParity | FlagCarry},
		{"SLL", func() (uint8, uint8) { return sll(0x00, 0) }, 0x01, 0},
		{"SRL", func() (uint8, uint8) { return srl(0x01, 0) }, 0x00, FlagZero | FlagParity | FlagCarry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, f := tt.fn()
			if r != tt.result {
				t.Errorf("expected result %02X, got %02X", tt.result, r)
			}
			if f != tt.flags {
				t.Errorf("expected flags %08b, got %08b", tt.flags, f)
			}
		})
	}
}

func TestALU_Compare(t *testing.T) {
	// X and Y come from the operand, not the result
	if f := cp8(0x10, 0x01); f != FlagHalfCarry|FlagSubtract {
		t.Errorf("expected flags %08b, got %08b", FlagHalfCarry|FlagSubtract, f)
	}
	if f := cp8(0x28, 0x28); f != FlagZero|FlagY|FlagX|FlagSubtract {
		t.Errorf("expected flags %08b, got %08b", FlagZero|FlagY|FlagX|FlagSubtract, f)
	}
}

func TestALU_16Bit(t *testing.T) {
	if r, f := add16(0x0FFF, 0x0001, 0xFF); r != 0x1000 || f != 0xD4 {
		t.Errorf("ADD HL: expected 1000/D4, got %04X/%02X", r, f)
	}
	if r, f := sbc16(0x0000, 0x0001, 0); r != 0xFFFF || f != 0xBB {
		t.Errorf("SBC HL: expected FFFF/BB, got %04X/%02X", r, f)
	}
	if r, f := adc16(0x7FFF, 0x0000, FlagCarry); r != 0x8000 || f != FlagSign|FlagHalfCarry|FlagParity {
		t.Errorf("ADC HL: expected 8000/94, got %04X/%02X", r, f)
	}
	if r, f := sbc16(0x1234, 0x1234, 0); r != 0 || f != FlagZero|FlagSubtract {
		t.Errorf("SBC HL: expected 0000/42, got %04X/%02X", r, f)
	}
}

func TestALU_Bit(t *testing.T) {
	if f := bit(7, 0x80, 0x80, 0); f != FlagSign|FlagHalfCarry {
		t.Errorf("expected %08b, got %08b", FlagSign|FlagHalfCarry, f)
	}
	if f := bit(0, 0x00, 0x28, FlagCarry); f != 0x7D {
		t.Errorf("expected %08b, got %08b", 0x7D, f)
	}
}

func TestALU_CarryFlagOps(t *testing.T) {
	if f := scf(0x28, FlagZero|FlagHalfCarry|FlagSubtract); f != FlagZero|FlagY|FlagX|FlagCarry {
		t.Errorf("SCF: unexpected flags %08b", f)
	}
	if f := ccf(0x00, FlagCarry); f != FlagHalfCarry {
		t.Errorf("CCF: expected old carry in H, got %08b", f)
	}
	if f := ccf(0x00, 0); f != FlagCarry {
		t.Errorf("CCF: expected carry set, got %08b", f)
	}
}
