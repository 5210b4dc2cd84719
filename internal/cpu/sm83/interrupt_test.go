package sm83

import (
	"testing"

	"github.com/thelolagemann/chipcore/internal/types"
)

func TestInterrupt_EIDelay(t *testing.T) {
	// EI ; NOP ; NOP
	c, b := newTestCPU(t, 0xFB, 0x00, 0x00)
	b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01

	c.Step()
	if c.IME() || c.PC() != 1 {
		t.Fatalf("expected IME to stay clear for one instruction, got %s", c)
	}

	if cycles := c.Step(); cycles != 24 {
		t.Errorf("expected NOP and dispatch in 24 cycles, got %d", cycles)
	}
	if c.PC() != 0x0040 {
		t.Errorf("expected PC=0040, got %04X", c.PC())
	}
	if c.IME() {
		t.Error("expected IME to be cleared by the dispatch")
	}
	if b.mem[types.IF] != 0 {
		t.Errorf("expected IF to be acknowledged, got %02X", b.mem[types.IF])
	}
	if c.SP() != 0xCFFE || b.mem[0xCFFE] != 0x02 || b.mem[0xCFFF] != 0x00 {
		t.Errorf("expected return address 0002 on the stack, got SP=%04X", c.SP())
	}
}

func TestInterrupt_EIThenDI(t *testing.T) {
	// EI ; DI ; NOP
	c, b := newTestCPU(t, 0xFB, 0xF3, 0x00)
	b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01

	c.Step()
	c.Step()
	c.Step()
	if c.PC() != 3 {
		t.Errorf("expected no dispatch, got PC=%04X", c.PC())
	}
}

func TestInterrupt_Priority(t *testing.T) {
	c, b := newTestCPU(t, 0x00)
	c.ime = true
	b.mem[types.IE], b.mem[types.IF] = 0x1F, 0x14

	c.Step()
	if c.PC() != 0x0050 {
		t.Errorf("expected the timer vector 0050, got %04X", c.PC())
	}
	if b.mem[types.IF] != 0x10 {
		t.Errorf("expected only the timer flag cleared, got IF=%02X", b.mem[types.IF])
	}
}

func TestInterrupt_Disabled(t *testing.T) {
	c, b := newTestCPU(t, 0x00)
	c.ime = true
	b.mem[types.IE], b.mem[types.IF] = 0x02, 0x01

	c.Step()
	if c.PC() != 1 {
		t.Errorf("expected IE to mask the request, got PC=%04X", c.PC())
	}
}

func TestInterrupt_Halt(t *testing.T) {
	// EI ; HALT ; NOP
	c, b := newTestCPU(t, 0xFB, 0x76, 0x00)
	b.mem[types.IE] = 0x04

	c.Step()
	c.Step()
	if !c.Halted() || c.Mode() != ModeHalt {
		t.Fatalf("expected halt, got mode %d", c.Mode())
	}
	if cycles := c.Step(); cycles != haltCycles || c.PC() != 2 {
		t.Fatalf("expected to idle at 0002 for %d cycles, got %d at %04X", haltCycles, cycles, c.PC())
	}

	b.mem[types.IF] = 0x04
	if cycles := c.Step(); cycles != haltCycles+interruptCycles {
		t.Errorf("expected wake and dispatch in %d cycles, got %d", haltCycles+interruptCycles, cycles)
	}
	if c.PC() != 0x0050 || c.Halted() {
		t.Errorf("expected to service the timer interrupt, got %s", c)
	}
	if b.mem[0xCFFE] != 0x02 {
		t.Errorf("expected return address 0002, got low byte %02X", b.mem[0xCFFE])
	}
}

func TestInterrupt_EIHalt(t *testing.T) {
	// EI ; HALT ; NOP
	c, b := newTestCPU(t, 0xFB, 0x76, 0x00)
	b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01
	// RETI at the VBlank vector
	b.mem[0x40] = 0xD9

	c.Step()
	if cycles := c.Step(); cycles != 4+interruptCycles {
		t.Errorf("expected HALT and dispatch in %d cycles, got %d", 4+interruptCycles, cycles)
	}
	if c.PC() != 0x0040 || c.Halted() {
		t.Fatalf("expected to service VBlank, got %s", c)
	}
	if b.mem[0xCFFE] != 0x01 || b.mem[0xCFFF] != 0x00 {
		t.Errorf("expected the HALT at 0001 as return address, got %02X%02X", b.mem[0xCFFF], b.mem[0xCFFE])
	}

	c.Step()
	if c.PC() != 1 {
		t.Fatalf("expected RETI to return to 0001, got %04X", c.PC())
	}
	c.Step()
	if !c.Halted() || c.Mode() != ModeHalt {
		t.Errorf("expected HALT to execute again, got mode %d", c.Mode())
	}
}

func TestInterrupt_HaltDI(t *testing.T) {
	// HALT ; NOP
	c, b := newTestCPU(t, 0x76, 0x00)
	b.mem[types.IE] = 0x01

	c.Step()
	if c.Mode() != ModeHaltDI {
		t.Fatalf("expected halt with IME clear, got mode %d", c.Mode())
	}
	c.Step()

	b.mem[types.IF] = 0x01
	c.Step()
	if c.Halted() || c.PC() != 1 {
		t.Fatalf("expected to wake at 0001 without dispatch, got %s", c)
	}
	c.Step()
	if c.PC() != 2 || b.mem[types.IF] != 0x01 {
		t.Errorf("expected to continue with IF untouched, got PC=%04X IF=%02X", c.PC(), b.mem[types.IF])
	}
}

func TestInterrupt_HaltBug(t *testing.T) {
	// HALT ; INC A
	c, b := newTestCPU(t, 0x76, 0x3C, 0x00)
	b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01

	c.Step()
	if c.Halted() || c.Mode() != ModeHaltBug {
		t.Fatalf("expected the halt bug, got mode %d", c.Mode())
	}
	c.Step()
	c.Step()
	if c.A != 2 || c.PC() != 2 {
		t.Errorf("expected INC A to run twice, got A=%02X PC=%04X", c.A, c.PC())
	}
}

func TestInterrupt_RETI(t *testing.T) {
	c, b := newTestCPU(t, 0xD9)
	b.mem[0xD000], b.mem[0xD001] = 0x34, 0x12

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("expected 16 cycles, got %d", cycles)
	}
	if !c.IME() || c.PC() != 0x1234 {
		t.Errorf("expected IME set and PC=1234, got %s", c)
	}
}

func TestInterrupt_IEPush(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		c, b := newTestCPU(t, 0x00)
		c.ime = true
		c.SetSP(0x0000)
		b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01

		c.Step()
		if c.PC() != 0x0000 {
			t.Errorf("expected the dispatch to be cancelled to 0000, got %04X", c.PC())
		}
		if b.mem[types.IF] != 0x01 {
			t.Errorf("expected IF untouched, got %02X", b.mem[types.IF])
		}
		if b.mem[types.IE] != 0x00 || b.mem[0xFFFE] != 0x01 {
			t.Errorf("expected PC pushed over IE, got IE=%02X low=%02X", b.mem[types.IE], b.mem[0xFFFE])
		}
		if c.IME() {
			t.Error("expected IME cleared")
		}
	})
	t.Run("still enabled", func(t *testing.T) {
		c, b := newTestCPU(t)
		c.ime = true
		c.SetSP(0x0000)
		c.SetPC(0x0100)
		b.mem[types.IE], b.mem[types.IF] = 0x01, 0x01

		c.Step()
		if c.PC() != 0x0040 {
			t.Errorf("expected the VBlank vector, got %04X", c.PC())
		}
		if b.mem[types.IF] != 0x00 {
			t.Errorf("expected IF acknowledged, got %02X", b.mem[types.IF])
		}
	})
}
