package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/pkg/log"
)

func record(pc uint16, name string) cpu.Trace {
	return cpu.Trace{Arch: "z80", PC: pc, Opcodes: [4]uint8{0x3C}, Length: 1, Name: name, Cycles: 4}
}

func TestWriter(t *testing.T) {
	var b bytes.Buffer
	w := NewWriter(&b)
	w.Trace(record(0x0100, "INC A"))
	w.Trace(record(0x0101, "INC A"))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "z80  0100 3C") || !strings.Contains(lines[0], "INC A") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if w.Err() != nil {
		t.Error(w.Err())
	}
}

func TestLogger(t *testing.T) {
	var b bytes.Buffer
	l := NewLogger(log.NewWithLevel(&b, "debug"))
	l.Trace(record(0x0100, "INC A"))
	if !strings.Contains(b.String(), "INC A") {
		t.Errorf("expected the record to be logged, got %q", b.String())
	}

	b.Reset()
	NewLogger(log.NewWithLevel(&b, "info")).Trace(record(0x0100, "INC A"))
	if b.Len() != 0 {
		t.Errorf("expected nothing logged at info level, got %q", b.String())
	}
}

func TestRing(t *testing.T) {
	r := NewRing(3)
	if len(r.Records()) != 0 {
		t.Fatal("expected an empty ring")
	}
	for pc := uint16(0); pc < 5; pc++ {
		r.Trace(record(pc, "NOP"))
	}

	records := r.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []uint16{2, 3, 4} {
		if records[i].PC != want {
			t.Errorf("record %d: expected PC %04X, got %04X", i, want, records[i].PC)
		}
	}

	var b bytes.Buffer
	if err := r.Dump(&b); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(b.String(), "\n"); n != 3 {
		t.Errorf("expected 3 dumped lines, got %d", n)
	}
}

func TestMulti(t *testing.T) {
	first, second := NewRing(4), NewHistogram()
	Multi{first, second}.Trace(record(0, "NOP"))
	if len(first.Records()) != 1 || second.Total() != 1 {
		t.Error("expected every tracer to receive the record")
	}
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	for i := 0; i < 3; i++ {
		h.Trace(record(0, "INC A"))
	}
	h.Trace(record(0, "NOP"))
	h.Trace(record(0, "DEC B"))
	h.Trace(cpu.Trace{Name: "(halt)"})

	if h.Total() != 5 {
		t.Errorf("expected 5 instructions, got %d", h.Total())
	}
	top := h.Top(2)
	if len(top) != 2 || top[0] != (Count{"INC A", 3}) || top[1] != (Count{"DEC B", 1}) {
		t.Errorf("unexpected top entries %v", top)
	}
	if all := h.Top(-1); len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}

	filename := filepath.Join(t.TempDir(), "histogram.png")
	if err := h.SavePNG(filename, 10); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(filename); err != nil || info.Size() == 0 {
		t.Errorf("expected a PNG to be written, got %v", err)
	}

	if err := NewHistogram().SavePNG(filename, 10); err == nil {
		t.Error("expected an error for an empty histogram")
	}
}
