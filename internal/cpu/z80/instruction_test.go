package z80

import (
	"testing"
)

// run steps c until PC reaches stop, returning the cycles taken.
func run(t *testing.T, c *CPU, stop uint16) int {
	t.Helper()
	total := 0
	for i := 0; c.PC() != stop; i++ {
		if i > 1000 {
			t.Fatalf("PC never reached %04X", stop)
		}
		total += c.Step()
	}
	return total
}

func TestBlock_LDIR(t *testing.T) {
	c, b := newTestCPU(t, 0xED, 0xB0)
	c.SetHL(0x4000)
	c.SetDE(0x5000)
	c.SetBC(3)
	copy(b.mem[0x4000:], []uint8{1, 2, 3})

	if cycles := run(t, c, 2); cycles != 21+21+16 {
		t.Errorf("expected %d cycles, got %d", 21+21+16, cycles)
	}
	for i, v := range []uint8{1, 2, 3} {
		if b.mem[0x5000+i] != v {
			t.Errorf("expected %02X at %04X, got %02X", v, 0x5000+i, b.mem[0x5000+i])
		}
	}
	if c.BC.Uint16() != 0 || c.HL.Uint16() != 0x4003 || c.DE.Uint16() != 0x5003 {
		t.Errorf("unexpected registers after LDIR: %s", c)
	}
	if c.F&FlagParity != 0 {
		t.Errorf("expected P/V reset once BC reaches 0")
	}
}

func TestBlock_LDD(t *testing.T) {
	c, b := newTestCPU(t, 0xED, 0xA8)
	c.SetHL(0x4002)
	c.SetDE(0x5002)
	c.SetBC(2)
	c.A = 0x00
	b.mem[0x4002] = 0x0A

	c.Step()
	if b.mem[0x5002] != 0x0A || c.HL.Uint16() != 0x4001 || c.DE.Uint16() != 0x5001 {
		t.Fatalf("unexpected registers after LDD: %s", c)
	}
	// A + value = 0x0A: X from bit 3, Y from bit 1
	if c.F&(FlagParity|FlagX|FlagY) != FlagParity|FlagX|FlagY {
		t.Errorf("unexpected flags %08b", c.F)
	}
}

func TestBlock_CPIR(t *testing.T) {
	c, b := newTestCPU(t, 0xED, 0xB1)
	c.A = 0x02
	c.SetHL(0x4000)
	c.SetBC(5)
	copy(b.mem[0x4000:], []uint8{1, 2, 3})

	if cycles := run(t, c, 2); cycles != 21+16 {
		t.Errorf("expected %d cycles, got %d", 21+16, cycles)
	}
	if c.HL.Uint16() != 0x4002 || c.BC.Uint16() != 3 {
		t.Errorf("unexpected registers after CPIR: %s", c)
	}
	if c.F&FlagZero == 0 || c.F&FlagParity == 0 {
		t.Errorf("expected Z and P/V set, got %08b", c.F)
	}
}

func TestBlock_OTIR(t *testing.T) {
	c, b := newTestCPU(t, 0xED, 0xB3)
	c.B, c.C = 2, 0x10
	c.SetHL(0x4000)
	copy(b.mem[0x4000:], []uint8{0xAA, 0xBB})

	run(t, c, 2)
	if len(b.written) != 2 || b.written[0] != (portWrite{0x10, 0xAA}) || b.written[1] != (portWrite{0x10, 0xBB}) {
		t.Errorf("unexpected port writes: %v", b.written)
	}
	if c.B != 0 || c.F&FlagZero == 0 {
		t.Errorf("expected B=0 and Z set, got B=%02X F=%08b", c.B, c.F)
	}
}

func TestBlock_INI(t *testing.T) {
	c, b := newTestCPU(t, 0xED, 0xA2)
	c.B, c.C = 1, 0x20
	c.SetHL(0x4000)
	b.ports[0x20] = 0x80

	c.Step()
	if b.mem[0x4000] != 0x80 || c.HL.Uint16() != 0x4001 || c.B != 0 {
		t.Fatalf("unexpected state after INI: %s", c)
	}
	if c.F&FlagZero == 0 || c.F&FlagSubtract == 0 {
		t.Errorf("expected Z from B and N from bit 7, got %08b", c.F)
	}
}

func TestInstruction_Ports(t *testing.T) {
	// OUT (n), A ; IN B, (C) ; OUT (C), 0
	c, b := newTestCPU(t, 0xD3, 0x42, 0xED, 0x40, 0xED, 0x71)
	c.A = 0x55
	c.C = 0x07
	b.ports[0x07] = 0x00

	c.Step()
	c.Step()
	c.Step()

	if c.B != 0 || c.F&FlagZero == 0 {
		t.Errorf("expected B=0 with Z set, got B=%02X F=%08b", c.B, c.F)
	}
	want := []portWrite{{0x42, 0x55}, {0x07, 0x00}}
	if len(b.written) != 2 || b.written[0] != want[0] || b.written[1] != want[1] {
		t.Errorf("expected %v, got %v", want, b.written)
	}
}

func TestInstruction_Exchange(t *testing.T) {
	// EX AF, AF' ; EXX ; EX DE, HL ; DD EX DE, HL
	c, _ := newTestCPU(t, 0x08, 0xD9, 0xEB, 0xDD, 0xEB)
	c.SetAF(0x1122)
	c.SetBC(0x3344)
	c.SetDE(0x5566)
	c.SetHL(0x7788)

	c.Step()
	c.Step()
	if c.AF.Uint16() != 0 || c.BC.Uint16() != 0 || c.DE.Uint16() != 0 || c.HL.Uint16() != 0 {
		t.Fatalf("expected the zeroed alternate registers, got %s", c)
	}
	c.Step()
	c.Step()
	c.Step()
	c.Step()
	if c.AF.Uint16() != 0 || c.DE.Uint16() != 0 || c.HL.Uint16() != 0 {
		t.Fatalf("expected exchanges of zero pairs to stay zero, got %s", c)
	}
	if c.shadow.B != 0x33 || c.shadow.C != 0x44 || c.shadow.A != 0x11 || c.shadow.F != 0x22 {
		t.Errorf("expected the main registers in the alternate set, got %+v", c.shadow)
	}
}

func TestInstruction_RLD(t *testing.T) {
	// RLD ; RRD
	c, b := newTestCPU(t, 0xED, 0x6F, 0xED, 0x67)
	c.A = 0x12
	c.SetHL(0x4000)
	b.mem[0x4000] = 0x34

	c.Step()
	if c.A != 0x13 || b.mem[0x4000] != 0x42 {
		t.Fatalf("RLD: expected A=13 (HL)=42, got A=%02X (HL)=%02X", c.A, b.mem[0x4000])
	}
	c.Step()
	if c.A != 0x12 || b.mem[0x4000] != 0x34 {
		t.Errorf("RRD: expected A=12 (HL)=34, got A=%02X (HL)=%02X", c.A, b.mem[0x4000])
	}
}

func TestInstruction_StackAndCalls(t *testing.T) {
	// LD SP, 0x8000 ; CALL 0x0010 ; ... ; 0x0010: PUSH BC ; POP DE ; RET
	c, b := newTestCPU(t, 0x31, 0x00, 0x80, 0xCD, 0x10, 0x00)
	copy(b.mem[0x10:], []uint8{0xC5, 0xD1, 0xC9})
	c.SetBC(0xBEEF)

	run(t, c, 0x0006)
	if c.DE.Uint16() != 0xBEEF {
		t.Errorf("expected DE=BEEF, got %04X", c.DE.Uint16())
	}
	if c.SP() != 0x8000 {
		t.Errorf("expected balanced stack, SP=%04X", c.SP())
	}
}

func TestInstruction_LDAI(t *testing.T) {
	// LD A, I
	c, _ := newTestCPU(t, 0xED, 0x57)
	c.I = 0x80
	c.iff2 = true
	c.F = FlagCarry

	c.Step()
	if c.A != 0x80 || c.F != FlagSign|FlagParity|FlagCarry {
		t.Errorf("expected A=80 with S, P/V and C, got A=%02X F=%08b", c.A, c.F)
	}
}

func TestInstruction_BitMemoryXY(t *testing.T) {
	// LD A, (0x2800) sets WZ to 0x2801 ; BIT 0, (HL)
	c, b := newTestCPU(t, 0x3A, 0x00, 0x28, 0xCB, 0x46)
	c.SetHL(0x4000)
	b.mem[0x4000] = 0x01

	c.Step()
	c.Step()
	if c.F&(FlagX|FlagY) != FlagX|FlagY {
		t.Errorf("expected X and Y from the high byte of WZ, got %08b", c.F)
	}
}
