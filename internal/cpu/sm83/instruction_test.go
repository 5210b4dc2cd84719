package sm83

import (
	"testing"
)

func TestInstruction_Timing(t *testing.T) {
	// machine cycles, conditional instructions not taken, 0 for the
	// CB prefix
	timings := []uint8{
		1, 3, 2, 2, 1, 1, 2, 1, 5, 2, 2, 2, 1, 1, 2, 1,
		1, 3, 2, 2, 1, 1, 2, 1, 3, 2, 2, 2, 1, 1, 2, 1,
		2, 3, 2, 2, 1, 1, 2, 1, 2, 2, 2, 2, 1, 1, 2, 1,
		2, 3, 2, 2, 3, 3, 3, 1, 2, 2, 2, 2, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		2, 2, 2, 2, 2, 2, 1, 2, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
		2, 3, 3, 4, 3, 4, 2, 4, 2, 4, 3, 0, 3, 6, 2, 4,
		2, 3, 3, 1, 3, 4, 2, 4, 2, 4, 3, 1, 3, 1, 2, 4,
		3, 3, 2, 1, 1, 4, 2, 4, 4, 1, 4, 1, 1, 1, 2, 4,
		3, 3, 2, 1, 1, 4, 2, 4, 3, 2, 4, 1, 1, 1, 2, 4,
	}
	for i, timing := range timings {
		if got := baseSet.Cycles[i]; got != timing*4 {
			t.Errorf("%02X %s: expected %d cycles, got %d", i, baseSet.Name(uint8(i)), timing*4, got)
		}
	}

	cbTiming := []uint8{
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 3, 2, 2, 2, 2, 2, 2, 2, 3, 2,
		2, 2, 2, 2, 2, 2, 3, 2, 2, 2, 2, 2, 2, 2, 3, 2,
		2, 2, 2, 2, 2, 2, 3, 2, 2, 2, 2, 2, 2, 2, 3, 2,
		2, 2, 2, 2, 2, 2, 3, 2, 2, 2, 2, 2, 2, 2, 3, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
		2, 2, 2, 2, 2, 2, 4, 2, 2, 2, 2, 2, 2, 2, 4, 2,
	}
	for i, timing := range cbTiming {
		if got := cbSet.Cycles[i]; got != timing*4 {
			t.Errorf("CB %02X %s: expected %d cycles, got %d", i, cbSet.Name(uint8(i)), timing*4, got)
		}
	}
}

func TestInstruction_Conditional(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		f       uint8
		cycles  int
		pc      uint16
	}{
		{"JR NZ, r8 taken", []uint8{0x20, 0x05}, 0, 12, 7},
		{"JR NZ, r8 not taken", []uint8{0x20, 0x05}, FlagZero, 8, 2},
		{"JP C, a16 taken", []uint8{0xDA, 0x00, 0x10}, FlagCarry, 16, 0x1000},
		{"JP C, a16 not taken", []uint8{0xDA, 0x00, 0x10}, 0, 12, 3},
		{"CALL Z, a16 taken", []uint8{0xCC, 0x00, 0x10}, FlagZero, 24, 0x1000},
		{"CALL Z, a16 not taken", []uint8{0xCC, 0x00, 0x10}, 0, 12, 3},
		{"RET NC taken", []uint8{0xD0}, 0, 20, 0x0000},
		{"RET NC not taken", []uint8{0xD0}, FlagCarry, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(t, tt.program...)
			c.F = tt.f
			if cycles := c.Step(); cycles != tt.cycles {
				t.Errorf("expected %d cycles, got %d", tt.cycles, cycles)
			}
			if c.PC() != tt.pc {
				t.Errorf("expected PC %04X, got %04X", tt.pc, c.PC())
			}
		})
	}
}

func TestInstruction_Loads(t *testing.T) {
	// LD HL, 0xC000 ; LD A, 0x42 ; LD (HL+), A ; LD (HL-), A ; LDH (0x80), A ; LD B, (HL)
	c, b := newTestCPU(t, 0x21, 0x00, 0xC0, 0x3E, 0x42, 0x22, 0x32, 0xE0, 0x80, 0x46)
	for i := 0; i < 6; i++ {
		c.Step()
	}

	if b.mem[0xC000] != 0x42 || b.mem[0xC001] != 0x42 {
		t.Errorf("expected 42 at C000 and C001, got %02X %02X", b.mem[0xC000], b.mem[0xC001])
	}
	if c.HL.Uint16() != 0xC000 {
		t.Errorf("expected HL=C000, got %04X", c.HL.Uint16())
	}
	if b.mem[0xFF80] != 0x42 {
		t.Errorf("expected 42 at FF80, got %02X", b.mem[0xFF80])
	}
	if c.B != 0x42 {
		t.Errorf("expected B=42, got %02X", c.B)
	}
}

func TestInstruction_StackAndCalls(t *testing.T) {
	// CALL 0x0010 ; ... ; 0x0010: PUSH BC ; POP DE ; RET
	c, b := newTestCPU(t, 0xCD, 0x10, 0x00)
	copy(b.mem[0x10:], []uint8{0xC5, 0xD1, 0xC9})
	c.SetBC(0xBEEF)

	for i := 0; i < 4; i++ {
		c.Step()
	}
	if c.PC() != 3 || c.SP() != 0xD000 {
		t.Errorf("expected to return to 0003 with a balanced stack, got %s", c)
	}
	if c.DE.Uint16() != 0xBEEF {
		t.Errorf("expected DE=BEEF, got %04X", c.DE.Uint16())
	}
}

func TestInstruction_LoadSP(t *testing.T) {
	// LD (0xC000), SP ; LD HL, SP-1
	c, b := newTestCPU(t, 0x08, 0x00, 0xC0, 0xF8, 0xFF)
	c.SetSP(0x1234)

	c.Step()
	if b.mem[0xC000] != 0x34 || b.mem[0xC001] != 0x12 {
		t.Errorf("expected SP stored little endian, got %02X %02X", b.mem[0xC000], b.mem[0xC001])
	}
	c.Step()
	if c.HL.Uint16() != 0x1233 || c.F != FlagHalfCarry|FlagCarry {
		t.Errorf("expected HL=1233 with H and C, got HL=%04X F=%08b", c.HL.Uint16(), c.F)
	}
}

func TestInstruction_CB(t *testing.T) {
	// SWAP A ; SET 0, (HL) ; RES 7, A ; BIT 0, (HL)
	c, b := newTestCPU(t, 0xCB, 0x37, 0xCB, 0xC6, 0xCB, 0xBF, 0xCB, 0x46)
	c.A = 0xF1
	c.SetHL(0xC000)

	if cycles := c.Step(); cycles != 8 || c.A != 0x1F {
		t.Fatalf("SWAP A: expected A=1F in 8 cycles, got %02X in %d", c.A, cycles)
	}
	if cycles := c.Step(); cycles != 16 || b.mem[0xC000] != 0x01 {
		t.Fatalf("SET 0, (HL): expected 01 in 16 cycles, got %02X in %d", b.mem[0xC000], cycles)
	}
	c.Step()
	if c.A != 0x1F {
		t.Fatalf("RES 7, A: expected A=1F, got %02X", c.A)
	}
	if cycles := c.Step(); cycles != 12 || c.isFlagSet(FlagZero) {
		t.Errorf("BIT 0, (HL): expected Z clear in 12 cycles, got F=%08b in %d", c.F, cycles)
	}
}
